package qs

import (
	"reflect"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("query")
}

// FromStruct builds a Map from the exported fields of a struct, using
// sentinel metadata for type T.
//
// Field names come from the `query` tag, falling back to the Go field name:
//
//	type Filter struct {
//	    IDs   []int  `query:"ids"`
//	    Owner string `query:"owner,omitempty"`
//	    Debug bool   `query:"-"`
//	}
//
// Nested structs become one-level mappings. T must be a struct type; a nil
// pointer yields an empty Map.
func FromStruct[T any](v T) Map {
	m := Map{}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return m
	}

	meta := sentinel.Scan[T]()
	return fieldMap(rv, meta.Fields)
}

// structMap builds a Map for struct values whose type is only known at
// runtime. Types already scanned by sentinel reuse the cached metadata.
func structMap(rv reflect.Value) Map {
	return fieldMap(rv, structFields(rv.Type()).Fields)
}

// structFields returns sentinel metadata for rt, falling back to a
// reflection scan of the `query` tag when the type was never scanned.
func structFields(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.Name()); ok && rt.Name() != "" && meta.PackageName == rt.PkgPath() {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := map[string]string{}
		if tag, ok := sf.Tag.Lookup("query"); ok {
			tags["query"] = tag
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return meta
}

// fieldMap reads the fields described by fields out of rv.
func fieldMap(rv reflect.Value, fields []sentinel.FieldMetadata) Map {
	m := Map{}
	for _, field := range fields {
		name, omitEmpty, skip := parseQueryTag(field.Tags["query"], field.Name)
		if skip {
			continue
		}
		fv, err := rv.FieldByIndexErr(field.Index)
		if err != nil || !fv.CanInterface() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		m[name] = fv.Interface()
	}
	return m
}

// parseQueryTag splits a `query` tag into its name and options.
func parseQueryTag(tag, fallback string) (name string, omitEmpty, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = fallback
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
