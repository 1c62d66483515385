package spclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/koltyakov/gosip/api"

	"propmgmt/domain/contracts"
)

// joinURL safely joins a base URL with a relative path
func joinURL(base, rel string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		u.Path = rel
		return u.String()
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.Path += rel
	return u.String()
}

// firstNonEmpty returns the first non-empty string from the provided values
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// odataString quotes a value for use inside an OData string literal
func odataString(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Verbose OData envelope: {"d": {...}}
type verboseEnvelope struct {
	D map[string]any `json:"d"`
}

// decodeItemJSON auto-detects verbose vs minimal JSON and normalizes the item id.
func decodeItemJSON(b []byte) (*contracts.ListItem, error) {
	var env verboseEnvelope
	fields := map[string]any{}
	if err := json.Unmarshal(b, &env); err == nil && env.D != nil {
		fields = env.D
	} else if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	id := itemID(fields)
	if id == "" {
		return nil, fmt.Errorf("list item response has no Id")
	}
	delete(fields, "__metadata")
	return &contracts.ListItem{ID: id, Fields: fields}, nil
}

// decodeItems decodes one page of a collection response, verbose or minimal.
func decodeItems(resp api.ItemsResp) ([]contracts.ListItem, error) {
	data := resp.Data()
	items := make([]contracts.ListItem, 0, len(data))
	for _, raw := range data {
		item, err := decodeItemJSON(raw.Normalized())
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func itemID(fields map[string]any) string {
	for _, key := range []string{"Id", "ID"} {
		switch v := fields[key].(type) {
		case float64:
			return strconv.Itoa(int(v))
		case string:
			if v != "" {
				return v
			}
		}
	}
	return ""
}
