package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultTestCaseFields returns the field projection used when listing or
// exporting test cases without an explicit --fields selection.
func DefaultTestCaseFields() []string {
	return []string{
		"key",
		"name",
		"objective",
		"precondition",
		"priority",
		"status",
		"projectKey",
		"createdOn",
		"updatedOn",
	}
}

// TestCaseFieldSet is an ordered set of test case field names. Order defines
// column order for display and export.
type TestCaseFieldSet struct {
	fields []string
}

// FieldValue is a single projected field.
type FieldValue struct {
	Name  string
	Value any
}

// DefaultTestCaseFieldSet wraps DefaultTestCaseFields.
func DefaultTestCaseFieldSet() TestCaseFieldSet {
	return TestCaseFieldSet{fields: DefaultTestCaseFields()}
}

// NewTestCaseFieldSet builds a field set, rejecting empty and duplicate names.
func NewTestCaseFieldSet(fields ...string) (TestCaseFieldSet, error) {
	if len(fields) == 0 {
		return TestCaseFieldSet{}, fmt.Errorf("field set must contain at least one field")
	}
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			return TestCaseFieldSet{}, fmt.Errorf("field set contains an empty field name")
		}
		if seen[name] {
			return TestCaseFieldSet{}, fmt.Errorf("duplicate field %q in field set", name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return TestCaseFieldSet{fields: out}, nil
}

// ParseTestCaseFieldSet parses a comma-separated list such as "key,name,status".
// An empty string yields the default set.
func ParseTestCaseFieldSet(csv string) (TestCaseFieldSet, error) {
	if strings.TrimSpace(csv) == "" {
		return DefaultTestCaseFieldSet(), nil
	}
	return NewTestCaseFieldSet(strings.Split(csv, ",")...)
}

func (s TestCaseFieldSet) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s TestCaseFieldSet) Len() int { return len(s.fields) }

func (s TestCaseFieldSet) Contains(name string) bool {
	for _, f := range s.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Project picks the set's fields out of a raw record, in set order. Fields
// absent from the record are returned with a nil Value.
func (s TestCaseFieldSet) Project(record map[string]any) []FieldValue {
	out := make([]FieldValue, len(s.fields))
	for i, f := range s.fields {
		out[i] = FieldValue{Name: f, Value: record[f]}
	}
	return out
}

// Row projects a record and renders every value as display text.
func (s TestCaseFieldSet) Row(record map[string]any) []string {
	projected := s.Project(record)
	row := make([]string, len(projected))
	for i, fv := range projected {
		row[i] = FormatFieldValue(fv.Value)
	}
	return row
}

// FormatFieldValue renders a decoded JSON value for tables and exports.
// Reference objects such as {"id": 1, "name": "High"} render by name.
func FormatFieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatFieldValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, k := range []string{"name", "key", "id"} {
			if inner, ok := val[k]; ok {
				return FormatFieldValue(inner)
			}
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + FormatFieldValue(val[k])
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}
