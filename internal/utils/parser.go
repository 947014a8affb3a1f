package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// JSONToFieldMap converts a datatypes.JSON column into the dynamic
// field map the engines work on.
func JSONToFieldMap(jsonData datatypes.JSON) (map[string]interface{}, error) {
	if len(jsonData) == 0 {
		return map[string]interface{}{}, nil
	}
	var result map[string]interface{}
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FieldMapToJSON converts a dynamic field map back into a datatypes.JSON column.
func FieldMapToJSON(data map[string]interface{}) (datatypes.JSON, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsonData, nil
}

// IsEmptyValue reports whether a dynamic field value counts as "unset".
// Only nil and the empty string are unset: numeric 0 and false are real
// values a user can deliberately store.
func IsEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// NormalizeValue renders a dynamic field value to its canonical string
// form so before/after states can be compared. Empty values collapse to "".
func NormalizeValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// JSON numbers decode as float64
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", t)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateValue extracts a time.Time from a dynamic field value.
// Returns false when the value is absent or not a recognizable date.
func ParseDateValue(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if t == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		// Unix seconds, the form some clients post date pickers in
		return time.Unix(int64(t), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
