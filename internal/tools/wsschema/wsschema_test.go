package wsschema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestdata(t *testing.T, name string) *oasdoc.Document {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := oasdoc.Load(content)
	require.NoError(t, err)
	return doc
}

func mustDoc(t *testing.T, spec string) *oasdoc.Document {
	t.Helper()
	m, err := oasdoc.Unmarshal([]byte(spec))
	require.NoError(t, err)
	return oasdoc.New(m)
}

var routes = map[string]string{
	"SendTree":  "/send-tree",
	"SendPing":  "/send-ping",
	"SendChain": "/send-chain",
	"SendRaw":   "/send-raw",
}

func TestExtractSchemasSelfReference(t *testing.T) {
	doc := loadTestdata(t, "websocket.yaml")

	got, err := ExtractSchemas(doc, []string{"SendTree"}, routes)
	require.NoError(t, err)
	require.Contains(t, got, "SendTree")

	tree := got["SendTree"]
	assert.Equal(t, "#/definitions/components_schemas_Node", tree.Schema["properties"].(map[string]any)["root"].(map[string]any)["$ref"])
	require.Len(t, tree.Definitions, 1)

	node := tree.Definitions["components_schemas_Node"].(map[string]any)
	props := node["properties"].(map[string]any)
	assert.Equal(t, "#/definitions/components_schemas_Node", props["left"].(map[string]any)["$ref"])
	assert.Equal(t, "#/definitions/components_schemas_Node", props["right"].(map[string]any)["$ref"])
}

func TestExtractSchemasMutualRecursion(t *testing.T) {
	doc := loadTestdata(t, "websocket.yaml")

	got, err := ExtractSchemas(doc, []string{"SendChain"}, routes)
	require.NoError(t, err)

	chain := got["SendChain"]
	require.NotNil(t, chain)

	var ids []string
	for id := range chain.Definitions {
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []string{"components_schemas_A", "components_schemas_B", "components_schemas_C"}, ids)
	assert.NotContains(t, chain.Definitions, "components_schemas_Unused")

	data, err := oasdoc.Marshal(chain)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "#/components/"), "references left: %s", data)
}

func TestExtractSchemasWithoutBody(t *testing.T) {
	doc := loadTestdata(t, "websocket.yaml")

	got, err := ExtractSchemas(doc, []string{"SendPing", "SendRaw"}, routes)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractSchemasRequestBodyReference(t *testing.T) {
	doc := mustDoc(t, `{
	  "paths": {"/greet": {"post": {"requestBody": {"$ref": "#/components/requestBodies/Greeting"}}}},
	  "components": {
	    "requestBodies": {"Greeting": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Greeting"}}}}},
	    "schemas": {"Greeting": {"type": "object", "properties": {"text": {"type": "string"}}}}
	  }
	}`)

	got, err := ExtractSchemas(doc, []string{"Greet"}, map[string]string{"Greet": "/greet"})
	require.NoError(t, err)
	require.Contains(t, got, "Greet")
	assert.Equal(t, "object", got["Greet"].Schema["type"])
	assert.Empty(t, got["Greet"].Definitions)
}

func TestExtractSchemasRouteCardinality(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		wantErr string
	}{
		{name: "single method", item: `{"post": {}}`},
		{name: "no methods", item: `{"summary": "empty"}`, wantErr: "Found no methods"},
		{name: "two methods", item: `{"post": {}, "get": {}}`, wantErr: "Found get, post"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustDoc(t, `{"paths": {"/route": `+tc.item+`}}`)

			_, err := ExtractSchemas(doc, []string{"Route"}, map[string]string{"Route": "/route"})
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, specerrors.HasCode(err, specerrors.CodeMultipleMethodsForRoute))
			assert.Contains(t, err.Error(), "Each path must have a single method for websocket apis. "+tc.wantErr)
		})
	}
}

func TestExtractSchemasErrors(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		routes   map[string]string
		wantCode specerrors.Code
	}{
		{
			name:     "path not in document",
			spec:     `{"paths": {}}`,
			routes:   map[string]string{"Missing": "/missing"},
			wantCode: specerrors.CodeUnresolvedReference,
		},
		{
			name:     "route not mapped",
			spec:     `{"paths": {}}`,
			routes:   map[string]string{},
			wantCode: specerrors.CodeUnresolvedReference,
		},
		{
			name:     "unsupported path item key",
			spec:     `{"paths": {"/missing": {"post": {}, "x-other": true}}}`,
			routes:   map[string]string{"Missing": "/missing"},
			wantCode: specerrors.CodeUnsupportedPathMethod,
		},
		{
			name:     "not a schema",
			spec:     `{"paths": {"/missing": {"post": {"requestBody": {"content": {"application/json": {"schema": {"description": "nope"}}}}}}}}`,
			routes:   map[string]string{"Missing": "/missing"},
			wantCode: specerrors.CodeInvalidRequestBodySchema,
		},
		{
			name:     "dangling reference",
			spec:     `{"paths": {"/missing": {"post": {"requestBody": {"content": {"application/json": {"schema": {"type": "object", "properties": {"a": {"$ref": "#/components/schemas/Gone"}}}}}}}}}}`,
			routes:   map[string]string{"Missing": "/missing"},
			wantCode: specerrors.CodeUnresolvedReference,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractSchemas(mustDoc(t, tc.spec), []string{"Missing"}, tc.routes)
			require.Error(t, err)
			assert.True(t, specerrors.HasCode(err, tc.wantCode), "got %v", err)
		})
	}
}

func TestWrapSchema(t *testing.T) {
	empty := WrapSchema(nil)
	assert.Equal(t, []any{"route"}, empty["required"])
	assert.Equal(t, map[string]any{PayloadDefinition: map[string]any{}}, empty["definitions"])

	wrapped := WrapSchema(&SchemaWithDefinitions{
		Schema:      map[string]any{"$ref": "#/definitions/components_schemas_Node"},
		Definitions: map[string]any{"components_schemas_Node": map[string]any{"type": "object"}},
	})
	assert.Equal(t, []any{"route", "payload"}, wrapped["required"])

	defs := wrapped["definitions"].(map[string]any)
	assert.Contains(t, defs, "components_schemas_Node")
	assert.Equal(t, map[string]any{"$ref": "#/definitions/components_schemas_Node"}, defs[PayloadDefinition])
}

func TestCheckModel(t *testing.T) {
	doc := loadTestdata(t, "websocket.yaml")
	got, err := ExtractSchemas(doc, []string{"SendTree", "SendChain"}, routes)
	require.NoError(t, err)

	for routeKey, schema := range got {
		assert.NoError(t, CheckModel(routeKey, WrapSchema(schema)), routeKey)
	}
	assert.NoError(t, CheckModel("SendPing", WrapSchema(nil)))

	broken := WrapSchema(&SchemaWithDefinitions{Schema: map[string]any{"type": 5}})
	err = CheckModel("Broken", broken)
	require.Error(t, err)
	assert.True(t, specerrors.HasCode(err, specerrors.CodeInvalidRequestBodySchema))
}

func TestRouteKeys(t *testing.T) {
	assert.Equal(t, []string{"SendChain", "SendPing", "SendRaw", "SendTree"}, RouteKeys(routes))
}
