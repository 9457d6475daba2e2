package core

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Fields holds JSON object members that have no dedicated struct field.
// Browser-persisted records carry UI bookkeeping (cursor position, pane
// sizes, selected text) that must survive a round trip untouched.
type Fields map[string]json.RawMessage

var knownFieldsCache sync.Map // reflect.Type -> map[string]struct{}

// jsonFieldNames returns the JSON member names declared by struct type t.
func jsonFieldNames(t reflect.Type) map[string]struct{} {
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" || !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}

	knownFieldsCache.Store(t, names)
	return names
}

// marshalWithExtra encodes v and appends the extra members that v does not
// already declare.
func marshalWithExtra(v any, extra Fields) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return base, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(base, &members); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := members[k]; !ok {
			members[k] = raw
		}
	}
	return json.Marshal(members)
}

// unmarshalWithExtra decodes data into v and returns the members that v
// does not declare.
func unmarshalWithExtra(data []byte, v any) (Fields, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	known := jsonFieldNames(reflect.TypeOf(v).Elem())
	var extra Fields
	for k, raw := range members {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(Fields)
		}
		extra[k] = raw
	}
	return extra, nil
}
