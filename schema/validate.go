/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"

	apperrors "github.com/suparena/appdata/errors"
)

// Validate checks a generic JSON document against s. The document must come
// from a decoder configured with UseNumber so integers keep full precision.
// The first violation is returned as a *errors.ValidationError naming the
// offending field path; properties are visited in sorted order.
func (s *Schema) Validate(doc any) error {
	return s.validate("", doc)
}

// ValidateJSON decodes data and validates the result.
func (s *Schema) ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return apperrors.NewValidationError("", fmt.Sprintf("malformed JSON: %v", err))
	}
	if dec.More() {
		return apperrors.NewValidationError("", "unexpected data after JSON value")
	}
	return s.Validate(doc)
}

// ValidateValue validates the JSON form of v.
func (s *Schema) ValidateValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewValidationError("", fmt.Sprintf("cannot encode value: %v", err))
	}
	return s.ValidateJSON(data)
}

func (s *Schema) validate(path string, doc any) error {
	fail := func(format string, args ...any) error {
		return apperrors.NewValidationError(path, fmt.Sprintf(format, args...))
	}

	if doc == nil {
		if s.Nullable {
			return nil
		}
		return fail("must be %s, got null", s.Type)
	}

	switch s.Type {
	case "object":
		obj, ok := doc.(map[string]any)
		if !ok {
			return fail("must be an object")
		}
		return s.validateObject(path, obj)

	case "array":
		arr, ok := doc.([]any)
		if !ok {
			return fail("must be an array")
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}
		return nil

	case "string":
		str, ok := doc.(string)
		if !ok {
			return fail("must be a string")
		}
		return s.validateString(path, str)

	case "integer", "number":
		num, ok := doc.(json.Number)
		if !ok {
			return fail("must be a %s", s.Type)
		}
		return s.validateNumber(path, num)

	case "boolean":
		if _, ok := doc.(bool); !ok {
			return fail("must be a boolean")
		}
		return nil
	}
	return nil
}

func (s *Schema) validateObject(path string, obj map[string]any) error {
	for _, name := range s.Required {
		if _, ok := obj[name]; !ok {
			return apperrors.NewValidationError(join(path, name), "required field is missing")
		}
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := s.Properties[name]
		if !ok {
			if s.AdditionalProperties != nil && !*s.AdditionalProperties {
				return apperrors.NewValidationError(join(path, name), "unknown field")
			}
			continue
		}
		if err := prop.validate(join(path, name), obj[name]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateString(path, str string) error {
	if len(s.Enum) > 0 && !containsEnum(s.Enum, str) {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be one of %v", s.Enum))
	}

	n := utf8.RuneCountInString(str)
	if s.MinLength != nil && n < *s.MinLength {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be at least %d characters", *s.MinLength))
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be at most %d characters", *s.MaxLength))
	}

	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return apperrors.NewValidationError(path, fmt.Sprintf("invalid pattern %q: %v", s.Pattern, err))
		}
		if !re.MatchString(str) {
			return apperrors.NewValidationError(path, fmt.Sprintf("must match %q", s.Pattern))
		}
	}

	// Only registered string formats are enforced; "byte" and custom
	// annotations pass through.
	if s.Format != "" && s.Format != "byte" && strfmt.Default.ContainsName(s.Format) {
		if !strfmt.Default.Validates(s.Format, str) {
			return apperrors.NewValidationError(path, fmt.Sprintf("must be a valid %s", s.Format))
		}
	}
	return nil
}

func (s *Schema) validateNumber(path string, num json.Number) error {
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) {
		return apperrors.NewValidationError(path, fmt.Sprintf("invalid number %s", num))
	}
	if s.Type == "integer" {
		if _, err := num.Int64(); err != nil && f != math.Trunc(f) {
			return apperrors.NewValidationError(path, "must be an integer")
		}
	}

	if len(s.Enum) > 0 && !containsEnum(s.Enum, f) {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be one of %v", s.Enum))
	}
	if s.Minimum != nil && f < *s.Minimum {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be >= %v", *s.Minimum))
	}
	if s.Maximum != nil && f > *s.Maximum {
		return apperrors.NewValidationError(path, fmt.Sprintf("must be <= %v", *s.Maximum))
	}
	return nil
}

func containsEnum(enum []any, v any) bool {
	for _, e := range enum {
		switch ev := e.(type) {
		case string:
			if s, ok := v.(string); ok && s == ev {
				return true
			}
		case int64:
			if f, ok := v.(float64); ok && f == float64(ev) {
				return true
			}
		case uint64:
			if f, ok := v.(float64); ok && f == float64(ev) {
				return true
			}
		case float64:
			if f, ok := v.(float64); ok && f == ev {
				return true
			}
		}
	}
	return false
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
