package prepare

import (
	"strings"
	"testing"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "items", "version": "1.0.0"},
  "paths": {
    "/items": {
      "parameters": [{"name": "x-tenant", "in": "header", "schema": {"type": "string"}}],
      "get": {
        "operationId": "listItems",
        "parameters": [
          {"$ref": "#/components/parameters/Trace"},
          {"name": "limit", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {
          "200": {"description": "ok", "headers": {"Access-Control-Allow-Origin": {"description": "mine"}}}
        }
      },
      "post": {
        "operationId": "createItem",
        "responses": {"201": {"description": "created"}}
      }
    }
  },
  "components": {
    "parameters": {
      "Trace": {"name": "x-trace", "in": "header", "schema": {"type": "string"}}
    }
  }
}`

func mustDoc(t *testing.T, spec string) *oasdoc.Document {
	t.Helper()
	m, err := oasdoc.Unmarshal([]byte(spec))
	require.NoError(t, err)
	return oasdoc.New(m)
}

func itemsOptions() Options {
	return Options{
		OperationLookup: OperationLookup{
			"listItems":  {Method: "get", Path: "/items"},
			"createItem": {Method: "post", Path: "/items"},
		},
		Integrations: map[string]MethodIntegration{
			"listItems":  {Integration: map[string]any{"type": "aws_proxy", "uri": "list"}},
			"createItem": {Integration: map[string]any{"type": "aws_proxy", "uri": "create"}},
		},
	}
}

func operation(t *testing.T, spec map[string]any, path, method string) map[string]any {
	t.Helper()
	item, ok := spec["paths"].(map[string]any)[path].(map[string]any)
	require.True(t, ok, "path %s", path)
	op, ok := item[method].(map[string]any)
	require.True(t, ok, "%s %s", method, path)
	return op
}

func boolPtr(b bool) *bool { return &b }

func TestPrepareAPISpec(t *testing.T) {
	doc := mustDoc(t, itemsSpec)
	before, err := oasdoc.Marshal(doc.Spec())
	require.NoError(t, err)

	got, err := PrepareAPISpec(doc, itemsOptions())
	require.NoError(t, err)

	after, err := oasdoc.Marshal(doc.Spec())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "input document must not be modified")

	list := operation(t, got, "/items", "get")
	assert.Equal(t, map[string]any{"type": "aws_proxy", "uri": "list"}, list[ExtIntegration])
	_, hasSecurity := list["security"]
	assert.False(t, hasSecurity)

	create := operation(t, got, "/items", "post")
	assert.Equal(t, map[string]any{"type": "aws_proxy", "uri": "create"}, create[ExtIntegration])

	assert.Equal(t, "all", got[ExtRequestValidator])
	assert.Equal(t, map[string]any{
		"all": map[string]any{"validateRequestBody": true, "validateRequestParameters": true},
	}, got[ExtRequestValidators])

	bad := got[ExtGatewayResponses].(map[string]any)["BAD_REQUEST_BODY"].(map[string]any)
	assert.Equal(t, 400, bad["statusCode"])
	assert.NotContains(t, bad, "responseParameters")

	item := got["paths"].(map[string]any)["/items"].(map[string]any)
	assert.NotContains(t, item, "options")
	assert.NotContains(t, got, ExtAPIKeySource)
	assert.Equal(t, map[string]any{}, got["components"].(map[string]any)["securitySchemes"])
}

func TestPrepareAPISpecMissingIntegration(t *testing.T) {
	opts := itemsOptions()
	delete(opts.Integrations, "createItem")

	_, err := PrepareAPISpec(mustDoc(t, itemsSpec), opts)
	require.Error(t, err)
	assert.True(t, specerrors.HasCode(err, specerrors.CodeMissingIntegration))
	assert.Contains(t, err.Error(), "Missing required integration for operation createItem (post /items)")
}

func TestPrepareAPISpecOperationNotInLookup(t *testing.T) {
	opts := itemsOptions()
	delete(opts.OperationLookup, "createItem")

	_, err := PrepareAPISpec(mustDoc(t, itemsSpec), opts)
	require.Error(t, err)
	assert.True(t, specerrors.HasCode(err, specerrors.CodeMissingIntegration))
	assert.Contains(t, err.Error(), "createItem (post /items)")
}

func TestPrepareAPISpecDuplicateOperation(t *testing.T) {
	opts := itemsOptions()
	opts.OperationLookup["listAgain"] = OperationDetails{Method: "GET", Path: "/Items"}

	_, err := PrepareAPISpec(mustDoc(t, itemsSpec), opts)
	require.Error(t, err)
	assert.True(t, specerrors.HasCode(err, specerrors.CodeDuplicateOperation))
	assert.Contains(t, err.Error(), "listAgain")
	assert.Contains(t, err.Error(), "listItems")
}

func TestPrepareAPISpecUnsupportedPathMethod(t *testing.T) {
	spec := `{"openapi": "3.0.3", "paths": {"/things": {"get": {"responses": {}}, "x-extra": {}, "$ref": "#/x"}}}`
	opts := Options{
		OperationLookup: OperationLookup{"getThings": {Method: "get", Path: "/things"}},
		Integrations:    map[string]MethodIntegration{"getThings": {Integration: map[string]any{}}},
	}

	_, err := PrepareAPISpec(mustDoc(t, spec), opts)
	require.Error(t, err)
	assert.True(t, specerrors.HasCode(err, specerrors.CodeUnsupportedPathMethod))
	assert.Contains(t, err.Error(), "Path /things contains unsupported methods $ref, x-extra.")
	assert.Contains(t, err.Error(), "Supported methods are get, put, post, delete, options, head, patch, trace.")
}

func TestPrepareAPISpecCors(t *testing.T) {
	opts := itemsOptions()
	opts.Cors = &CorsOptions{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Content-Type", "x-tenant"},
		StatusCode:   204,
	}

	got, err := PrepareAPISpec(mustDoc(t, itemsSpec), opts)
	require.NoError(t, err)

	preflight := operation(t, got, "/items", "options")
	assert.Equal(t, "CORS Support", preflight["summary"])
	assert.Equal(t, []any{}, preflight["security"])
	assert.Equal(t, map[string]any{"type": "NONE"}, preflight[ExtAuth])

	integration := preflight[ExtIntegration].(map[string]any)
	assert.Equal(t, "mock", integration["type"])
	assert.Equal(t, map[string]any{"application/json": `{"statusCode": 204}`}, integration["requestTemplates"])

	def := integration["responses"].(map[string]any)["default"].(map[string]any)
	assert.Equal(t, "204", def["statusCode"])
	assert.Equal(t, map[string]any{
		"method.response.header.Access-Control-Allow-Headers": "'Content-Type,x-tenant,x-trace'",
		"method.response.header.Access-Control-Allow-Methods": "'GET,POST'",
		"method.response.header.Access-Control-Allow-Origin":  "'*'",
	}, def["responseParameters"])

	resp := operation(t, got, "/items", "get")["responses"].(map[string]any)["200"].(map[string]any)
	headers := resp["headers"].(map[string]any)
	assert.Equal(t, map[string]any{"description": "mine"}, headers["Access-Control-Allow-Origin"])
	assert.Equal(t, map[string]any{"schema": map[string]any{"type": "string"}}, headers["Access-Control-Allow-Methods"])
	assert.Contains(t, headers, "Access-Control-Allow-Headers")

	bad := got[ExtGatewayResponses].(map[string]any)["BAD_REQUEST_BODY"].(map[string]any)
	assert.Equal(t, "'*'", bad["responseParameters"].(map[string]any)["gatewayresponse.header.Access-Control-Allow-Origin"])
}

func TestPrepareAPISpecCorsKeepsDeclaredOptions(t *testing.T) {
	spec := `{
	  "openapi": "3.0.3",
	  "paths": {
	    "/items": {
	      "get": {"operationId": "listItems", "responses": {}},
	      "options": {"operationId": "preflight", "responses": {}}
	    }
	  }
	}`
	opts := Options{
		OperationLookup: OperationLookup{
			"listItems": {Method: "get", Path: "/items"},
			"preflight": {Method: "options", Path: "/items"},
		},
		Integrations: map[string]MethodIntegration{
			"listItems": {Integration: map[string]any{"uri": "list"}},
			"preflight": {Integration: map[string]any{"uri": "custom"}},
		},
		Cors: &CorsOptions{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET"}, StatusCode: 200},
	}

	got, err := PrepareAPISpec(mustDoc(t, spec), opts)
	require.NoError(t, err)

	preflight := operation(t, got, "/items", "options")
	assert.Equal(t, map[string]any{"uri": "custom"}, preflight[ExtIntegration])
	assert.Equal(t, "preflight", preflight["operationId"])
	assert.NotContains(t, preflight, "summary")
}

func TestPrepareAPISpecAuthorizers(t *testing.T) {
	cognito := &AuthorizerReference{AuthorizerID: "cognito", AuthorizationScopes: []string{"s1"}}

	tests := []struct {
		name      string
		spec      string
		method    *AuthorizerReference
		def       *AuthorizerReference
		wantErr   string
		wantSec   []any
		wantNoneX bool
	}{
		{
			name:    "method authorizer applied",
			spec:    `{"paths": {"/a": {"get": {"responses": {}}}}}`,
			method:  cognito,
			wantSec: []any{map[string]any{"cognito": []any{"s1"}}},
		},
		{
			name:    "default authorizer applied",
			spec:    `{"paths": {"/a": {"get": {"responses": {}}}}}`,
			def:     &AuthorizerReference{AuthorizerID: AuthorizerIAM},
			wantSec: []any{map[string]any{AuthorizerIAM: []any{}}},
		},
		{
			name:      "none authorizer",
			spec:      `{"paths": {"/a": {"get": {"responses": {}}}}}`,
			def:       &AuthorizerReference{AuthorizerID: AuthorizerNone},
			wantSec:   []any{},
			wantNoneX: true,
		},
		{
			name:    "scopes differ",
			spec:    `{"paths": {"/a": {"get": {"security": [{"cognito": ["s1", "s2"]}], "responses": {}}}}}`,
			method:  cognito,
			wantErr: "getA authorizer scopes [s1, s2] defined in the OpenAPI document differ from the configured scopes [s1]: s2",
		},
		{
			name:    "same scopes",
			spec:    `{"paths": {"/a": {"get": {"security": [{"cognito": ["s1"]}], "responses": {}}}}}`,
			method:  cognito,
			wantSec: []any{map[string]any{"cognito": []any{"s1"}}},
		},
		{
			name:    "different authorizer",
			spec:    `{"paths": {"/a": {"get": {"security": [{"lambda": []}], "responses": {}}}}}`,
			method:  cognito,
			wantErr: "getA authorizer lambda defined in the OpenAPI document would be overridden by authorizer cognito",
		},
		{
			name:    "several authorizers",
			spec:    `{"paths": {"/a": {"get": {"security": [{"lambda": []}, {"cognito": ["s1"]}], "responses": {}}}}}`,
			method:  cognito,
			wantErr: "getA authorizers lambda, cognito defined in the OpenAPI document would be overridden by single authorizer cognito",
		},
		{
			name:    "explicit no auth",
			spec:    `{"paths": {"/a": {"get": {"security": [], "responses": {}}}}}`,
			method:  cognito,
			wantErr: "getA explicitly defines no auth in the OpenAPI document, which would be overridden by authorizer cognito",
		},
		{
			name:      "explicit no auth matching none",
			spec:      `{"paths": {"/a": {"get": {"security": [], "responses": {}}}}}`,
			method:    &AuthorizerReference{AuthorizerID: AuthorizerNone},
			wantSec:   []any{},
			wantNoneX: true,
		},
		{
			name:    "default conflicts with top level security",
			spec:    `{"security": [{"lambda": []}], "paths": {"/a": {"get": {"responses": {}}}}}`,
			def:     cognito,
			wantErr: "Default authorizer lambda defined in the OpenAPI document would be overridden by authorizer cognito",
		},
		{
			name:    "null top level security",
			spec:    `{"security": null, "paths": {"/a": {"get": {"responses": {}}}}}`,
			def:     cognito,
			wantSec: []any{map[string]any{"cognito": []any{"s1"}}},
		},
		{
			name:    "null operation security",
			spec:    `{"paths": {"/a": {"get": {"security": null, "responses": {}}}}}`,
			method:  cognito,
			wantSec: []any{map[string]any{"cognito": []any{"s1"}}},
		},
		{
			name:    "method authorizer only checked against operation security",
			spec:    `{"security": [{"lambda": []}], "paths": {"/a": {"get": {"responses": {}}}}}`,
			method:  cognito,
			wantSec: []any{map[string]any{"cognito": []any{"s1"}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := Options{
				OperationLookup:   OperationLookup{"getA": {Method: "get", Path: "/a"}},
				Integrations:      map[string]MethodIntegration{"getA": {Integration: map[string]any{}, MethodAuthorizer: tc.method}},
				DefaultAuthorizer: tc.def,
			}

			got, err := PrepareAPISpec(mustDoc(t, tc.spec), opts)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, specerrors.HasCode(err, specerrors.CodeAuthorizerConflict))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)

			op := operation(t, got, "/a", "get")
			assert.Equal(t, tc.wantSec, op["security"])
			if tc.wantNoneX {
				assert.Equal(t, map[string]any{"type": "NONE"}, op[ExtAuth])
			} else {
				assert.NotContains(t, op, ExtAuth)
			}
		})
	}
}

func TestPrepareAPISpecAPIKeys(t *testing.T) {
	spec := `{"paths": {"/a": {"get": {"responses": {}}}}}`

	tests := []struct {
		name     string
		apiKey   *APIKeyOptions
		required *bool
		auth     *AuthorizerReference
		wantErr  bool
		wantSec  any
	}{
		{
			name:    "required by default",
			apiKey:  &APIKeyOptions{Source: APIKeySourceHeader, RequiredByDefault: true},
			wantSec: []any{map[string]any{AuthorizerAPIKey: []any{}}},
		},
		{
			name:     "method opts out",
			apiKey:   &APIKeyOptions{Source: APIKeySourceHeader, RequiredByDefault: true},
			required: boolPtr(false),
			wantSec:  []any{},
		},
		{
			name:     "method requires with authorizer",
			apiKey:   &APIKeyOptions{Source: APIKeySourceHeader},
			required: boolPtr(true),
			auth:     &AuthorizerReference{AuthorizerID: "cognito"},
			wantSec: []any{
				map[string]any{"cognito": []any{}},
				map[string]any{AuthorizerAPIKey: []any{}},
			},
		},
		{
			name:     "authorizer source",
			apiKey:   &APIKeyOptions{Source: "AUTHORIZER"},
			required: boolPtr(true),
			wantErr:  true,
		},
		{
			name:     "no api key options",
			required: boolPtr(true),
			wantErr:  true,
		},
		{
			name:    "not required",
			apiKey:  &APIKeyOptions{Source: "AUTHORIZER"},
			wantSec: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			integration := MethodIntegration{Integration: map[string]any{}, MethodAuthorizer: tc.auth}
			if tc.required != nil {
				integration.Options = &IntegrationOptions{APIKeyRequired: tc.required}
			}
			opts := Options{
				OperationLookup: OperationLookup{"getA": {Method: "get", Path: "/a"}},
				Integrations:    map[string]MethodIntegration{"getA": integration},
				APIKey:          tc.apiKey,
			}

			got, err := PrepareAPISpec(mustDoc(t, spec), opts)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, specerrors.HasCode(err, specerrors.CodeInvalidApiKeyConfig))
				assert.Contains(t, err.Error(), "getA (get /a)")
				return
			}
			require.NoError(t, err)

			op := operation(t, got, "/a", "get")
			assert.Equal(t, tc.wantSec, op["security"])
			if tc.apiKey != nil {
				assert.Equal(t, tc.apiKey.Source, got[ExtAPIKeySource])
			}
		})
	}
}

func TestPrepareAPISpecSecuritySchemes(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		wantErr  string
	}{
		{
			name:     "compatible",
			existing: `{"cognito": {"type": "apiKey", "x-amazon-apigateway-authtype": "cognito_user_pools", "name": "Authorization"}}`,
		},
		{
			name:     "type differs",
			existing: `{"cognito": {"type": "oauth2"}}`,
			wantErr:  "Security scheme with id cognito was of type oauth2",
		},
		{
			name:     "authtype differs",
			existing: `{"cognito": {"type": "apiKey", "x-amazon-apigateway-authtype": "custom"}}`,
			wantErr:  "Security scheme with id cognito was of x-amazon-apigateway-authtype custom",
		},
		{
			name:     "reference",
			existing: `{"cognito": {"$ref": "#/components/securitySchemes/other"}, "other": {"type": "apiKey"}}`,
			wantErr:  "Security scheme with id cognito is a reference",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := `{"paths": {}, "components": {"securitySchemes": ` + tc.existing + `}}`
			configured := map[string]any{
				"cognito": map[string]any{
					"type":      "apiKey",
					ExtAuthType: "cognito_user_pools",
					"name":      "Authorization",
					"in":        "header",
				},
			}

			got, err := PrepareAPISpec(mustDoc(t, spec), Options{SecuritySchemes: configured})
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, specerrors.HasCode(err, specerrors.CodeSecuritySchemeConflict))
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)

			schemes := got["components"].(map[string]any)["securitySchemes"].(map[string]any)
			assert.Equal(t, "header", schemes["cognito"].(map[string]any)["in"])
		})
	}
}

func TestSymmetricDifference(t *testing.T) {
	assert.Equal(t, []string{"s2"}, symmetricDifference([]string{"s1", "s2"}, []string{"s1"}))
	assert.Equal(t, []string{"a", "c"}, symmetricDifference([]string{"c", "b"}, []string{"b", "a"}))
	assert.Empty(t, symmetricDifference([]string{"s1"}, []string{"s1", "s1"}))
}

func TestFindHeaderParameters(t *testing.T) {
	got := findHeaderParameters(mustDoc(t, itemsSpec))
	assert.Equal(t, []string{"x-tenant", "x-trace"}, got)
	assert.False(t, strings.Contains(strings.Join(got, ","), "limit"))
}
