package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fedstream/pkg/domain"
)

// APIParams computes the minimal outbound parameter mapping for a create or
// update call: the lifecycle defaults while the datastream is new, overlaid
// with every dirty recognised attribute plus mimeType unconditionally (so
// the repository never substitutes a generic default). Only present, truthy
// resolved values are included; identity fields and content never are.
// Output is deterministic for a given dirty set and attribute state.
func (d *Datastream) APIParams(ctx context.Context) map[string]string {
	out := make(map[string]string)
	if d.IsNew(ctx) {
		for name, value := range domain.LifecycleDefaults() {
			if truthy(value) {
				out[string(name)] = stringify(value)
			}
		}
	}
	overlay := d.ChangedAttributes()
	overlay = append(overlay, domain.AttrMimeType)
	for _, name := range overlay {
		if name == domain.AttrContent {
			continue
		}
		value := d.Get(ctx, name)
		if truthy(value) {
			out[string(name)] = stringify(value)
		}
	}
	return out
}

// paramKeys returns the sorted parameter names for journalling.
func paramKeys(params map[string]string) []string {
	out := make([]string, 0, len(params))
	for k := range params {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// truthy reports whether a resolved attribute value is present and non-empty.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case []string:
		return len(v) > 0
	case []byte:
		return len(v) > 0
	default:
		return true
	}
}

// stringify renders an attribute value as a request parameter. Multi-valued
// attributes join with spaces, matching the repository's altIDs convention.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, " ")
	default:
		return fmt.Sprint(v)
	}
}
