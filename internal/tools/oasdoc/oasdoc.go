// Package oasdoc loads OpenAPI 3 documents into the generic JSON tree used by
// the preparation and extraction engines.
package oasdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
	"github.com/pb33f/libopenapi"
	"sigs.k8s.io/yaml"
)

// Document is an OpenAPI document held as a generic JSON tree, together with
// the declaration order of its paths.
type Document struct {
	spec     map[string]any
	paths    []string
	warnings []error
}

// New wraps an already decoded document. Paths are ordered lexicographically.
func New(spec map[string]any) *Document {
	if spec == nil {
		spec = map[string]any{}
	}
	d := &Document{spec: spec}
	d.paths = mergeOrder(nil, d.Paths())
	return d
}

// Load decodes JSON or YAML content, checks it builds as an OpenAPI 3 model and
// records the declaration order of its paths.
func Load(content []byte) (*Document, error) {
	spec, err := decode(content)
	if err != nil {
		return nil, err
	}

	d, err := libopenapi.NewDocument(content)
	if err != nil {
		return nil, specerrors.Wrap(specerrors.CodeInvalidDocument, err, "failed to create new libopenapi document")
	}

	model, modelErrors := d.BuildV3Model()
	if model == nil {
		return nil, specerrors.Wrap(specerrors.CodeInvalidDocument, errors.Join(modelErrors...), "failed to build V3 model")
	}

	var declared []string
	if model.Model.Paths != nil && model.Model.Paths.PathItems != nil {
		for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
			declared = append(declared, pair.Key())
		}
	}

	doc := &Document{spec: spec, warnings: modelErrors}
	doc.paths = mergeOrder(declared, doc.Paths())
	return doc, nil
}

// Spec returns the underlying JSON tree.
func (d *Document) Spec() map[string]any {
	return d.spec
}

// Paths returns the "paths" object, or an empty map.
func (d *Document) Paths() map[string]any {
	if p, ok := d.spec["paths"].(map[string]any); ok {
		return p
	}
	return map[string]any{}
}

// PathNames returns the path keys in declaration order.
func (d *Document) PathNames() []string {
	return d.paths
}

// PathItem returns the path item object for the given path.
func (d *Document) PathItem(path string) (map[string]any, bool) {
	item, ok := d.Paths()[path].(map[string]any)
	return item, ok
}

// Warnings returns non fatal problems reported while building the model,
// such as circular references.
func (d *Document) Warnings() []error {
	return d.warnings
}

// Marshal renders a JSON tree deterministically: object keys are sorted and
// HTML characters are not escaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes a JSON object keeping numbers as json.Number.
func Unmarshal(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var spec map[string]any
	if err := dec.Decode(&spec); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, errors.New("document is empty")
	}
	return spec, nil
}

func decode(content []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, specerrors.New(specerrors.CodeInvalidDocument, "document is empty")
	}

	data := trimmed
	if trimmed[0] != '{' {
		j, err := yaml.YAMLToJSON(trimmed)
		if err != nil {
			return nil, specerrors.Wrap(specerrors.CodeInvalidDocument, err, "failed to convert YAML document to JSON")
		}
		data = j
	}

	spec, err := Unmarshal(data)
	if err != nil {
		return nil, specerrors.Wrap(specerrors.CodeInvalidDocument, err, "failed to decode document")
	}
	return spec, nil
}

// mergeOrder keeps the declared order for known paths and appends any path
// missing from it in lexicographic order.
func mergeOrder(declared []string, paths map[string]any) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range declared {
		if _, ok := paths[p]; !ok {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	var rest []string
	for p := range paths {
		if _, ok := seen[p]; !ok {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
