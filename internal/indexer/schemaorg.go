package indexer

import (
	"encoding/json"
	"fmt"

	"github.com/hyperjump/wyvern/internal/model"
)

// parseSchemaOrg decodes a page's JSON-LD blocks into model.Item entities.
// A block may hold a single object or an array of objects; anything that
// isn't a JSON object with an "@type" is ignored rather than rejected, since
// crawled HTML regularly carries malformed or partial structured data.
func parseSchemaOrg(blocks []string) []model.Item {
	var items []model.Item
	for _, raw := range blocks {
		var any interface{}
		if err := json.Unmarshal([]byte(raw), &any); err != nil {
			continue
		}
		switch v := any.(type) {
		case []interface{}:
			for _, elem := range v {
				if m, ok := elem.(map[string]interface{}); ok {
					if it, ok := toItem(m); ok {
						items = append(items, it)
					}
				}
			}
		case map[string]interface{}:
			if it, ok := toItem(v); ok {
				items = append(items, it)
			}
		}
	}
	return items
}

func toItem(m map[string]interface{}) (model.Item, bool) {
	typ, _ := m["@type"].(string)
	if typ == "" {
		return model.Item{}, false
	}
	props := make(map[string]interface{}, len(m))
	var nested []model.Item
	for k, v := range m {
		if k == "@type" || k == "@context" {
			continue
		}
		if child, ok := v.(map[string]interface{}); ok {
			if it, ok := toItem(child); ok {
				nested = append(nested, it)
				continue
			}
		}
		props[k] = v
	}
	return model.Item{Type: typ, Properties: props, Nested: nested}, true
}

// flattenSchemaOrg renders each item's property names as "Type.property"
// tokens, the shape the json-flatten analyzer expects for the optic
// Schema() location (spec.md §3, FlattenedSchemaOrgJson).
func flattenSchemaOrg(items []model.Item) []string {
	var tokens []string
	var walk func(it model.Item)
	walk = func(it model.Item) {
		for k := range it.Properties {
			tokens = append(tokens, fmt.Sprintf("%s.%s", it.Type, k))
		}
		for _, n := range it.Nested {
			walk(n)
		}
	}
	for _, it := range items {
		walk(it)
	}
	return tokens
}
