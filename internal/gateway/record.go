package gateway

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// fieldInfo contains pre-computed metadata about a struct field.
type fieldInfo struct {
	index int
	dbTag string
}

// typeMetadata contains cached reflection metadata for a type.
type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

// Cache for type metadata. Reflection runs once per type.
var typeCache sync.Map // map[reflect.Type]*typeMetadata

func getOrCreateTypeMetadata(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() != reflect.Struct {
		typeCache.Store(t, meta)
		return meta
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			meta.embeddedIndices = append(meta.embeddedIndices, i)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
	}

	typeCache.Store(t, meta)
	return meta
}

// Columns lists the backend column names of a struct type from its "db"
// tags, embedded structs included. Used to build explicit select lists so
// reads stay unaffected by extra backend columns.
func Columns(v any) []string {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	meta := getOrCreateTypeMetadata(t)
	cols := make([]string, 0, len(meta.fields))
	for _, fi := range meta.fields {
		cols = append(cols, fi.dbTag)
	}
	for _, embIdx := range meta.embeddedIndices {
		embedded := reflect.New(t.Field(embIdx).Type).Elem().Interface()
		cols = append(cols, Columns(embedded)...)
	}
	return cols
}

// Marshal converts a struct to a Record using "db" tags. Embedded structs
// are flattened, so a TrashRecord marshals to one flat row.
func Marshal(v any) Record {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := getOrCreateTypeMetadata(rv.Type())
	rec := make(Record, len(meta.fields))

	for _, fi := range meta.fields {
		rec[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, embIdx := range meta.embeddedIndices {
		for k, val := range Marshal(rv.Field(embIdx).Interface()) {
			rec[k] = val
		}
	}

	return rec
}

// Unmarshal fills a struct pointer from a Record. Keys may arrive in either
// backend (snake) or client (camel) form; both are accepted.
func Unmarshal(rec Record, v any) error {
	raw, err := json.Marshal(Camelize(rec))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// ToSnake converts a camelCase key to snake_case. Snake input passes
// through unchanged.
func ToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts a snake_case key to camelCase. Camel input passes
// through unchanged.
func ToCamel(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Snakify normalizes a record to backend form. When a record carries both
// variants of the same key, the snake_case value wins.
func Snakify(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		sk := ToSnake(k)
		if sk != k {
			if _, backendForm := rec[sk]; backendForm {
				continue
			}
		}
		out[sk] = v
	}
	return out
}

// Camelize normalizes a record to client form. The snake_case value still
// wins when both variants are present.
func Camelize(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		ck := ToCamel(k)
		if ck != k {
			// k is the snake form, authoritative.
			out[ck] = v
			continue
		}
		sk := ToSnake(k)
		if sk != k {
			if _, backendForm := rec[sk]; backendForm {
				continue
			}
		}
		out[ck] = v
	}
	return out
}
