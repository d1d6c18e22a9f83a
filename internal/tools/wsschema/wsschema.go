// Package wsschema extracts request validation models for WebSocket routes
// from an OpenAPI document.
package wsschema

import (
	"bytes"
	"sort"
	"strings"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/prepare"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/refs"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	// ContentType of the request bodies turned into models.
	ContentType = "application/json"
	// PayloadDefinition is the definition holding the route payload schema.
	PayloadDefinition = "Payload"
)

var schemaKeywords = []string{"type", "allOf", "oneOf", "anyOf", "not"}

// SchemaWithDefinitions is a schema whose references all point into Definitions.
type SchemaWithDefinitions struct {
	Schema      map[string]any `json:"schema"`
	Definitions map[string]any `json:"definitions"`
}

// ExtractSchemas returns, for every route key, the request body schema of the
// single operation declared on its path. Routes without a JSON request body
// are left out of the result.
func ExtractSchemas(doc *oasdoc.Document, routeKeys []string, routeKeyToPath map[string]string) (map[string]*SchemaWithDefinitions, error) {
	res := make(map[string]*SchemaWithDefinitions, len(routeKeys))

	for _, routeKey := range routeKeys {
		path, ok := routeKeyToPath[routeKey]
		if !ok {
			return nil, specerrors.New(specerrors.CodeUnresolvedReference,
				"Route %s is not mapped to any path", routeKey)
		}
		item, ok := doc.PathItem(path)
		if !ok {
			return nil, specerrors.New(specerrors.CodeUnresolvedReference,
				"Route %s references path %s which is not defined in the document", routeKey, path)
		}
		if err := prepare.ValidatePathItem(path, item); err != nil {
			return nil, err
		}

		var methods []string
		for _, m := range prepare.HTTPMethods {
			if v, ok := item[m]; ok && v != nil {
				methods = append(methods, m)
			}
		}
		if len(methods) != 1 {
			found := strings.Join(methods, ", ")
			if found == "" {
				found = "no methods"
			}
			return nil, specerrors.New(specerrors.CodeMultipleMethodsForRoute,
				"Each path must have a single method for websocket apis. Found %s", found)
		}

		op, _ := item[methods[0]].(map[string]any)
		body, ok := op["requestBody"]
		if !ok || body == nil {
			continue
		}

		schema, err := ExtractSchema(doc.Spec(), routeKey, body)
		if err != nil {
			return nil, err
		}
		if schema != nil {
			res[routeKey] = schema
		}
	}

	return res, nil
}

// ExtractSchema returns the application/json schema of requestBody with its
// references rewritten into definitions, or nil when there is no such schema.
func ExtractSchema(spec map[string]any, operationID string, requestBody any) (*SchemaWithDefinitions, error) {
	body, err := resolveOnce(spec, requestBody)
	if err != nil {
		return nil, err
	}

	candidate := lookup(body, "content", ContentType, "schema")
	if candidate == nil {
		return nil, nil
	}

	raw, err := resolveOnce(spec, candidate)
	if err != nil {
		return nil, err
	}
	schema, ok := raw.(map[string]any)
	if !ok || !isSchemaObject(schema) {
		return nil, specerrors.New(specerrors.CodeInvalidRequestBodySchema,
			"Invalid OpenAPI specification: request body for operation %s is not a valid schema", operationID)
	}

	closure, err := refs.FindAll(spec, schema)
	if err != nil {
		return nil, err
	}

	rewritten, err := refs.Rewrite(schema, refs.DefinitionRef)
	if err != nil {
		return nil, err
	}

	defs := make(map[string]any, len(closure))
	for _, ref := range closure {
		target, err := refs.Resolve(spec, ref)
		if err != nil {
			return nil, err
		}
		def, err := refs.Rewrite(target, refs.DefinitionRef)
		if err != nil {
			return nil, err
		}
		defs[refs.DefinitionID(ref)] = def
	}

	return &SchemaWithDefinitions{
		Schema:      rewritten.(map[string]any),
		Definitions: defs,
	}, nil
}

// WrapSchema wraps a route schema into the model accepted by the gateway:
// an object carrying the route name and the schema as payload.
func WrapSchema(s *SchemaWithDefinitions) map[string]any {
	required := []any{"route"}
	definitions := map[string]any{}

	var payload any = map[string]any{}
	if s != nil {
		required = append(required, "payload")
		for k, v := range s.Definitions {
			definitions[k] = v
		}
		if s.Schema != nil {
			payload = s.Schema
		}
	}
	definitions[PayloadDefinition] = payload

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"route": map[string]any{
				"type": "string",
			},
			"payload": map[string]any{
				refs.Key: "#/definitions/" + PayloadDefinition,
			},
		},
		"required":    required,
		"definitions": definitions,
	}
}

// CheckModel compiles model as a draft-04 JSON Schema, the dialect used by
// gateway models.
func CheckModel(routeKey string, model map[string]any) error {
	data, err := oasdoc.Marshal(model)
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return specerrors.Wrap(specerrors.CodeInvalidRequestBodySchema, err, "model for route %s is not valid JSON", routeKey)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft4)
	if err := compiler.AddResource("model.json", doc); err != nil {
		return specerrors.Wrap(specerrors.CodeInvalidRequestBodySchema, err, "model for route %s", routeKey)
	}
	if _, err := compiler.Compile("model.json"); err != nil {
		return specerrors.Wrap(specerrors.CodeInvalidRequestBodySchema, err, "model for route %s is not a valid draft-04 schema", routeKey)
	}
	return nil
}

// RouteKeys returns the keys of routeKeyToPath in order.
func RouteKeys(routeKeyToPath map[string]string) []string {
	res := make([]string, 0, len(routeKeyToPath))
	for k := range routeKeyToPath {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func resolveOnce(spec map[string]any, v any) (any, error) {
	if ref, ok := refs.IsRef(v); ok {
		return refs.Resolve(spec, ref)
	}
	return v, nil
}

func lookup(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func isSchemaObject(m map[string]any) bool {
	for _, k := range schemaKeywords {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
