// Package models holds the JSON value model shared by every stage of the
// rendering pipeline.
package models

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, *JSONObject or JSONArray.
type JSONValue interface{}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// JSONObject represents a JSON object whose keys keep their insertion order.
// Keys are unique; setting an existing key replaces its value in place.
type JSONObject struct {
	keys   []string
	fields map[string]JSONValue
}

// Kind identifies the variant held by a JSONValue.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf reports the variant of v.
func KindOf(v JSONValue) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case string:
		return KindString
	case JSONArray:
		return KindArray
	case *JSONObject:
		return KindObject
	default:
		return KindInvalid
	}
}

// NewObject creates an empty object ready for Set calls.
func NewObject() *JSONObject {
	return &JSONObject{fields: make(map[string]JSONValue)}
}

// EmptyObject returns the canonical empty object. It cannot fail and is used
// as the fallback payload wherever a value is required.
func EmptyObject() *JSONObject {
	return NewObject()
}

// Set stores value under key.
func (o *JSONObject) Set(key string, value JSONValue) {
	if o.fields == nil {
		o.fields = make(map[string]JSONValue)
	}
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	if o == nil || o.fields == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *JSONObject) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *JSONObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Merge copies every entry of other into o, in other's key order. Colliding
// keys take other's value.
func (o *JSONObject) Merge(other *JSONObject) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		o.Set(key, other.fields[key])
	}
}

// MarshalJSON writes the object with keys in insertion order.
func (o *JSONObject) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.fields[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes v as compact JSON.
func Marshal(v JSONValue) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v JSONValue) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// FromNative converts nested Go literals into a JSONValue. Plain maps have no
// key order, so their keys are sorted; use *JSONObject to keep a specific one.
func FromNative(v any) (JSONValue, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *JSONObject, json.Number, string, bool:
		return t, nil
	case JSONArray:
		return t, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			child, err := FromNative(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, child)
		}
		return obj, nil
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, t[k])
		}
		return obj, nil
	case []any:
		arr := make(JSONArray, len(t))
		for i, item := range t {
			child, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = child
		}
		return arr, nil
	case []string:
		arr := make(JSONArray, len(t))
		for i, item := range t {
			arr[i] = item
		}
		return arr, nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float32:
		return floatNumber(float64(t))
	case float64:
		return floatNumber(t)
	default:
		return nil, fmt.Errorf("unsupported JSON value type %T", v)
	}
}

// MustFromNative is FromNative for literals known to be valid.
func MustFromNative(v any) JSONValue {
	out, err := FromNative(v)
	if err != nil {
		panic(err)
	}
	return out
}

func floatNumber(f float64) (JSONValue, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported number %v", f)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// Equal reports structural equality. Object key order is ignored and numbers
// compare by value.
func Equal(a, b JSONValue) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch av := a.(type) {
	case nil:
		return true
	case bool:
		return av == b.(bool)
	case string:
		return av == b.(string)
	case json.Number:
		return numbersEqual(av, b.(json.Number))
	case JSONArray:
		bv := b.(JSONArray)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *JSONObject:
		bv := b.(*JSONObject)
		if av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.Keys() {
			other, ok := bv.Get(key)
			if !ok {
				return false
			}
			mine, _ := av.Get(key)
			if !Equal(mine, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	af, errA := strconv.ParseFloat(string(a), 64)
	bf, errB := strconv.ParseFloat(string(b), 64)
	if errA != nil || errB != nil {
		return false
	}
	return af == bf
}
