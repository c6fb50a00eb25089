package orchestrator

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/models"
)

// resourceData adds resource-level metadata to full documents.
type resourceData struct {
	md    content.Metadata
	allow PropertyFilter
}

func (d resourceData) addProperties(obj *models.JSONObject) error {
	props := models.NewObject()
	if d.md != nil {
		list, err := d.md.Properties()
		if err != nil {
			return err
		}
		for _, p := range list {
			if d.allow != nil && !d.allow(p.Name) {
				continue
			}
			props.Set(p.Name, p.Value)
		}
	}
	obj.Set("properties", props)
	return nil
}

func (d resourceData) attributes() (*models.JSONObject, error) {
	out := models.NewObject()
	if d.md == nil {
		return out, nil
	}
	attrs, err := d.md.Attributes()
	if err != nil {
		return nil, err
	}
	if attrs.Type != "" {
		out.Set("type", attrs.Type)
	}
	out.Set("size", json.Number(strconv.FormatInt(attrs.Size, 10)))
	if !attrs.Created.IsZero() {
		out.Set("created", attrs.Created.UTC().Format(time.RFC3339))
	}
	if !attrs.LastModified.IsZero() {
		out.Set("lastModified", attrs.LastModified.UTC().Format(time.RFC3339))
	}
	for _, extra := range attrs.Extra {
		out.Set(extra.Name, extra.Value)
	}
	return out, nil
}

// trailer holds the entries written last: path and, when set, link.
func (d resourceData) trailer() *models.JSONObject {
	out := models.NewObject()
	if d.md == nil {
		return out
	}
	out.Set("path", d.md.RootPath())
	if link := d.md.Link(); link != "" {
		out.Set("link", link)
	}
	return out
}
