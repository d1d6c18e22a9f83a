// Package refs resolves, collects and rewrites internal JSON references ($ref)
// inside a generic JSON document tree (map[string]any, []any and scalars).
package refs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/safety"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
)

// Key is the object key holding a reference.
const Key = "$ref"

const definitionsPrefix = "#/definitions/"

var unescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Split splits an internal reference into its unescaped path segments,
// eg: #/components/schemas/Foo -> [components schemas Foo].
func Split(ref string) ([]string, error) {
	if ref == "#" {
		return []string{}, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, specerrors.New(specerrors.CodeUnresolvedReference,
			"Unable to resolve ref %s in spec: only references within the document are supported", ref)
	}
	return segments(ref), nil
}

func segments(ref string) []string {
	raw := strings.Split(strings.TrimPrefix(strings.TrimPrefix(ref, "#"), "/"), "/")
	out := make([]string, len(raw))
	for i, p := range raw {
		// single pass: "~01" unescapes to "~1"
		out[i] = unescaper.Replace(p)
	}
	return out
}

// Resolve returns the value the reference points to inside root.
func Resolve(root any, ref string) (any, error) {
	parts, err := Split(ref)
	if err != nil {
		return nil, err
	}

	cur := root
	for _, seg := range parts {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, unresolved(ref)
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, unresolved(ref)
			}
			cur = v[idx]
		default:
			return nil, unresolved(ref)
		}
	}
	if cur == nil {
		return nil, unresolved(ref)
	}
	return cur, nil
}

func unresolved(ref string) error {
	return specerrors.New(specerrors.CodeUnresolvedReference, "Unable to resolve ref %s in spec", ref)
}

// DefinitionID returns the id of a reference in a "definitions" section,
// eg: #/components/schemas/Foo -> components_schemas_Foo.
func DefinitionID(ref string) string {
	return strings.Join(segments(ref), "_")
}

// DefinitionRef rewrites a reference to the model definitions format,
// eg: #/components/schemas/Foo -> #/definitions/components_schemas_Foo.
func DefinitionRef(ref string) string {
	return definitionsPrefix + DefinitionID(ref)
}

// IsRef reports whether the value is an object carrying a reference.
func IsRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	ref, ok := m[Key].(string)
	return ref, ok
}

// Collect returns every reference found anywhere under node, sorted and de-duplicated.
func Collect(node any) ([]string, error) {
	found := map[string]struct{}{}
	_, err := walk(node, safety.Default(), 0, func(ref string) string {
		found[ref] = struct{}{}
		return ref
	})
	if err != nil {
		return nil, err
	}
	return sortedKeys(found), nil
}

// FindAll returns the closure of references reachable from schema, following
// every reference into its target in root. Each reference is marked as seen
// before its target is explored, so cyclic schemas terminate.
func FindAll(root, schema any) ([]string, error) {
	seen := map[string]struct{}{}

	queue, err := Collect(schema)
	if err != nil {
		return nil, err
	}
	for _, ref := range queue {
		seen[ref] = struct{}{}
	}

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		target, err := Resolve(root, ref)
		if err != nil {
			return nil, err
		}
		nested, err := Collect(target)
		if err != nil {
			return nil, err
		}
		for _, n := range nested {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}

	return sortedKeys(seen), nil
}

// Rewrite returns a structural copy of node where every reference has been
// replaced with fn(ref). The input is never modified.
func Rewrite(node any, fn func(ref string) string) (any, error) {
	return walk(node, safety.Default(), 0, fn)
}

// Clone returns a deep copy of node.
func Clone(node any) (any, error) {
	return walk(node, safety.Default(), 0, nil)
}

// CloneObject returns a deep copy of an object.
func CloneObject(obj map[string]any) (map[string]any, error) {
	if obj == nil {
		return nil, nil
	}
	res, err := Clone(obj)
	if err != nil {
		return nil, err
	}
	return res.(map[string]any), nil
}

func walk(node any, guard *safety.RecursionGuard, depth int, fn func(string) string) (any, error) {
	if err := guard.Check(depth); err != nil {
		return nil, err
	}

	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			if ref, ok := child.(string); ok && k == Key && fn != nil {
				out[k] = fn(ref)
				continue
			}
			c, err := walk(child, guard, depth+1, fn)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			c, err := walk(child, guard, depth+1, fn)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
