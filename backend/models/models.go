package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RequiredFields are the report fields every write endpoint demands.
var RequiredFields = []string{"category", "lat", "lon", "user", "timestamp", "action"}

// Record is the stored shape of a report: the submitted payload with
// lat and lon coerced to float64. Extra fields pass through untouched.
type Record map[string]any

// MissingFieldsError lists the required report fields absent from a payload.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks field presence and coerces lat/lon in place.
// Presence means the key exists in the payload; empty strings and
// zero coordinates are valid.
func (r Record) Validate() error {
	var missing []string
	for _, field := range RequiredFields {
		if _, ok := r[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	for _, field := range []string{"lat", "lon"} {
		f, err := toFloat(field, r[field])
		if err != nil {
			return err
		}
		r[field] = f
	}
	return nil
}

func toFloat(name string, v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %v", name, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s: cannot convert %T to float", name, v)
	}
}
