package validation

import (
	"strconv"
	"strings"
)

// Violations collects per-field validation messages in the shape the API
// returns for 400 responses.
type Violations map[string][]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "This field is required.")
	}
}

func MaxLength(field, value string, maxLen int, v Violations) {
	if len(value) > maxLen {
		v.Add(field, "Ensure this field has no more than "+strconv.Itoa(maxLen)+" characters.")
	}
}
