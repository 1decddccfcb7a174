/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Schema is the structural description of a record type. It serializes as a
// JSON-Schema compatible document so clients can render and validate forms.
type Schema struct {
	ID                   string             `json:"$id,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 string             `json:"type"`
	Format               string             `json:"format,omitempty"`
	Nullable             bool               `json:"nullable,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Default              any                `json:"default,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
}

// Describer lets a record type document itself in its schema.
type Describer interface {
	SchemaDescription() string
}

// Titler overrides the title derived from a record type's name.
type Titler interface {
	SchemaTitle() string
}

// Option customizes the root of a generated schema.
type Option func(*Schema)

// WithID sets the schema identifier, normally the store name.
func WithID(id string) Option {
	return func(s *Schema) { s.ID = id }
}

// WithDefault records the default value of the whole record, for clients
// that prefill forms.
func WithDefault(v any) Option {
	return func(s *Schema) { s.Default = v }
}

// Generate builds the schema of value's type. Field names follow json tags;
// the title, description, format, default, enum, minimum, maximum, minLength,
// maxLength and pattern tags add metadata. Fields without omitempty that are
// not pointers are required.
func Generate(value any, opts ...Option) (*Schema, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, fmt.Errorf("schema: cannot describe nil value")
	}

	b := &builder{visited: map[reflect.Type]bool{}}
	root, err := b.build(rv.Type())
	if err != nil {
		return nil, err
	}

	rt := rv.Type()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() != "" {
		root.Title = Title(rt.Name())
	}
	if t, ok := value.(Titler); ok {
		root.Title = t.SchemaTitle()
	}
	if d, ok := value.(Describer); ok {
		root.Description = d.SchemaDescription()
	}

	for _, opt := range opts {
		opt(root)
	}
	return root, nil
}

// MustGenerate is like Generate but panics on error. It is meant for
// package-level schemas of types known to be describable.
func MustGenerate(value any, opts ...Option) *Schema {
	s, err := Generate(value, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

type builder struct {
	visited map[reflect.Type]bool
}

func (b *builder) build(rt reflect.Type) (*Schema, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt == reflect.TypeOf(time.Time{}) {
		return &Schema{Type: "string", Format: "date-time"}, nil
	}

	switch rt.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Schema{Type: "integer"}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		zero := 0.0
		return &Schema{Type: "integer", Minimum: &zero}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Struct:
		return b.buildStruct(rt)
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("schema: map key type %s unsupported", rt.Key())
		}
		return &Schema{Type: "object"}, nil
	case reflect.Slice, reflect.Array:
		if rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}, nil
		}
		items, err := b.build(rt.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	default:
		return nil, fmt.Errorf("schema: type %s unsupported", rt)
	}
}

func (b *builder) buildStruct(rt reflect.Type) (*Schema, error) {
	if b.visited[rt] {
		return nil, fmt.Errorf("schema: recursive type %s unsupported", rt)
	}
	b.visited[rt] = true
	defer delete(b.visited, rt)

	closed := false
	node := &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: &closed,
	}

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONName(field)
		if skip {
			continue
		}

		child, err := b.build(field.Type)
		if err != nil {
			return nil, err
		}
		if err := applyFieldMetadata(child, name, field); err != nil {
			return nil, err
		}

		node.Properties[name] = child
		if field.Type.Kind() == reflect.Pointer {
			child.Nullable = true
		} else if !omitEmpty {
			node.Required = append(node.Required, name)
		}
	}

	sort.Strings(node.Required)
	return node, nil
}

func parseJSONName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false, false
	}

	segments := strings.Split(tag, ",")
	if segments[0] == "-" {
		return "", false, true
	}

	name = segments[0]
	if name == "" {
		name = field.Name
	}
	for _, segment := range segments[1:] {
		if segment == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func applyFieldMetadata(node *Schema, name string, field reflect.StructField) error {
	baseType := field.Type
	for baseType.Kind() == reflect.Pointer {
		baseType = baseType.Elem()
	}

	node.Title = Title(name)
	if title := field.Tag.Get("title"); title != "" {
		node.Title = title
	}
	if description := field.Tag.Get("description"); description != "" {
		node.Description = description
	}
	if format := field.Tag.Get("format"); format != "" {
		node.Format = format
	}

	if def := field.Tag.Get("default"); def != "" {
		value, err := parseScalar(baseType, def)
		if err != nil {
			return fmt.Errorf("schema: parse default for field %s: %w", field.Name, err)
		}
		node.Default = value
	}

	if enum := field.Tag.Get("enum"); enum != "" {
		for _, part := range strings.Split(enum, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := parseScalar(baseType, part)
			if err != nil {
				return fmt.Errorf("schema: parse enum for field %s: %w", field.Name, err)
			}
			node.Enum = append(node.Enum, value)
		}
	}

	if isNumericKind(baseType.Kind()) {
		if err := assignFloat(&node.Minimum, field.Tag.Get("minimum")); err != nil {
			return fmt.Errorf("schema: parse minimum for field %s: %w", field.Name, err)
		}
		if err := assignFloat(&node.Maximum, field.Tag.Get("maximum")); err != nil {
			return fmt.Errorf("schema: parse maximum for field %s: %w", field.Name, err)
		}
	}

	if baseType.Kind() == reflect.String {
		if err := assignInt(&node.MinLength, field.Tag.Get("minLength")); err != nil {
			return fmt.Errorf("schema: parse minLength for field %s: %w", field.Name, err)
		}
		if err := assignInt(&node.MaxLength, field.Tag.Get("maxLength")); err != nil {
			return fmt.Errorf("schema: parse maxLength for field %s: %w", field.Name, err)
		}
		if pattern := field.Tag.Get("pattern"); pattern != "" {
			node.Pattern = pattern
		}
	}

	return nil
}

func assignFloat(target **float64, raw string) error {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*target = &value
	return nil
}

func assignInt(target **int, raw string) error {
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*target = &value
	return nil
}

func parseScalar(t reflect.Type, raw string) (any, error) {
	switch t.Kind() {
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(raw, 10, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.ParseUint(raw, 10, t.Bits())
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, t.Bits())
	default:
		return raw, nil
	}
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Title turns an identifier such as "maxConcurrent" or "UserProfile" into
// display text ("Max Concurrent", "User Profile"). Acronyms are kept.
func Title(name string) string {
	caser := cases.Title(language.English)
	words := splitWords(name)
	for i, w := range words {
		if strings.ToUpper(w) == w {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	var words []string
	runes := []rune(name)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) {
			words = append(words, string(runes[start:i]))
			break
		}
		r, prev := runes[i], runes[i-1]
		switch {
		case r == '_' || r == '-' || r == ' ':
			if i > start {
				words = append(words, string(runes[start:i]))
			}
			start = i + 1
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			words = append(words, string(runes[start:i]))
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// "HTTPServer" splits before "Server"
			words = append(words, string(runes[start:i]))
			start = i
		}
	}

	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
