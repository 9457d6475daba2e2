package bootstrap

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// mergeRecord overlays patches, left to right, onto the JSON form of
// existing and decodes the result. Members present in a patch win;
// members a patch omits keep their previous value. A patch member whose
// value does not fit its field is rejected and the previous value kept;
// the rejected member names are returned in patch order.
func mergeRecord[T any](existing *T, patches ...core.Patch) (T, []string, error) {
	var out T

	merged := core.Patch{}
	if existing != nil {
		raw, err := json.Marshal(existing)
		if err != nil {
			return out, nil, err
		}
		if err := json.Unmarshal(raw, &merged); err != nil {
			return out, nil, err
		}
	}

	var rejected []string
	for _, p := range patches {
		for _, k := range slices.Sorted(maps.Keys(p)) {
			if !memberFits[T](k, p[k]) {
				rejected = append(rejected, k)
				continue
			}
			merged[k] = p[k]
		}
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return out, rejected, err
	}
	err = json.Unmarshal(raw, &out)
	return out, rejected, err
}

// memberFits reports whether an object holding only key decodes into T.
func memberFits[T any](key string, value json.RawMessage) bool {
	raw, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return false
	}
	var target T
	return json.Unmarshal(raw, &target) == nil
}

// normalizeEditorPatch maps the legacy "title" member onto "name".
// A blank title or name never overrides a name the editor already has.
func normalizeEditorPatch(p core.Patch) core.Patch {
	out := make(core.Patch, len(p))
	for k, v := range p {
		out[k] = v
	}

	if title := stringMember(out, "title"); title != "" {
		out["name"] = out["title"]
	} else if stringMember(out, "name") == "" {
		delete(out, "name")
	}
	delete(out, "title")

	return out
}

func stringMember(p core.Patch, key string) string {
	raw, ok := p[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func cloneQueries(queries map[string]core.Query) map[string]core.Query {
	out := make(map[string]core.Query, len(queries))
	for k, q := range queries {
		out[k] = q
	}
	return out
}
