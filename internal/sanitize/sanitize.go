// Package sanitize normalizes stored school documents into the canonical
// shape the API serves. School records have been inserted by seeds, admin
// edits and partial updates over time, so fields may be missing, whitespace
// polluted or wrongly typed; every read and write path runs documents
// through School before using them.
package sanitize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

var stringFields = []string{
	"name", "location", "category", "type", "description",
	"address", "phone", "email", "website",
}

var floatFields = []string{"averageRating", "latitude", "longitude"}

var intFields = []string{"reviewCount", "established"}

// CleanString trims the value and strips embedded tab, newline and carriage
// return characters outright.
func CleanString(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("\n", "", "\t", "", "\r", "")
	return replacer.Replace(s)
}

// CleanKey normalizes a field name the same way values are cleaned.
func CleanKey(key string) string {
	return CleanString(key)
}

// School produces the canonical map for one raw school document. A nil or
// non-map input yields nil, signalling "not a school". Every canonical field
// is present in the result; unrecognized keys are copied through, cleaned
// when they hold strings.
func School(raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		return nil
	}

	sanitized := map[string]interface{}{
		"name":          "",
		"location":      "",
		"category":      "",
		"type":          "",
		"description":   "",
		"address":       "",
		"phone":         "",
		"email":         "",
		"website":       "",
		"averageRating": float64(0),
		"reviewCount":   0,
		"latitude":      float64(0),
		"longitude":     float64(0),
		"facilities":    []string{},
		"established":   0,
		"createdAt":     nil,
		"updatedAt":     nil,
	}

	for key, value := range raw {
		k := CleanKey(key)
		switch {
		case contains(stringFields, k):
			if s, ok := value.(string); ok {
				sanitized[k] = CleanString(s)
			} else {
				sanitized[k] = value
			}
		case contains(floatFields, k):
			sanitized[k] = toFloat(value)
		case contains(intFields, k):
			sanitized[k] = int(toFloat(value))
		case k == "facilities":
			sanitized[k] = toFacilities(value)
		case k == "createdAt" || k == "updatedAt":
			if truthy(value) {
				sanitized[k] = value
			} else {
				sanitized[k] = time.Now().UTC().Format(time.RFC3339)
			}
		default:
			if s, ok := value.(string); ok {
				sanitized[k] = CleanString(s)
			} else {
				sanitized[k] = value
			}
		}
	}

	// Records that never carried timestamps still get defaults.
	if sanitized["createdAt"] == nil {
		sanitized["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	}
	if sanitized["updatedAt"] == nil {
		sanitized["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	}

	return sanitized
}

// Schools sanitizes a batch, dropping entries that do not sanitize to a
// school.
func Schools(raws []map[string]interface{}) []map[string]interface{} {
	sanitized := make([]map[string]interface{}, 0, len(raws))
	for _, raw := range raws {
		if s := School(raw); s != nil {
			sanitized = append(sanitized, s)
		}
	}
	return sanitized
}

func contains(fields []string, key string) bool {
	for _, f := range fields {
		if f == key {
			return true
		}
	}
	return false
}

func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toFacilities(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return cleanEntries(v)
	case []interface{}:
		entries := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				entries = append(entries, s)
			}
		}
		return cleanEntries(entries)
	case string:
		// JSON first, comma split only when the value is not JSON at all.
		var parsed interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			list, ok := parsed.([]interface{})
			if !ok {
				return []string{}
			}
			entries := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok {
					entries = append(entries, s)
				}
			}
			return cleanEntries(entries)
		}
		return cleanEntries(strings.Split(v, ","))
	default:
		return []string{}
	}
}

func cleanEntries(entries []string) []string {
	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		if c := CleanString(entry); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}
