// Package prepare rewrites an OpenAPI document into one deployable on the
// gateway, attaching integrations, authorizers, CORS support and validators.
package prepare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/refs"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
)

// pathItemFields are the non method keys allowed in a path item.
var pathItemFields = []string{"summary", "description", "parameters", "servers"}

// OperationKey is the reverse index key of an operation.
func OperationKey(method, path string) string {
	return strings.ToLower(method) + "||" + strings.ToLower(path)
}

type preparer struct {
	opts        Options
	cors        *CorsOptions
	operationOf map[string]string
}

// PrepareAPISpec returns a copy of doc extended with the gateway vendor
// extensions described by opts. doc is never modified.
func PrepareAPISpec(doc *oasdoc.Document, opts Options) (map[string]any, error) {
	operationOf, err := reverseIndex(opts.OperationLookup)
	if err != nil {
		return nil, err
	}

	spec, err := refs.CloneObject(doc.Spec())
	if err != nil {
		return nil, err
	}

	components := map[string]any{}
	if c, ok := spec["components"].(map[string]any); ok {
		components = c
	}
	existingSchemes, _ := components["securitySchemes"].(map[string]any)

	if err := validateSecuritySchemes(opts.SecuritySchemes, existingSchemes); err != nil {
		return nil, err
	}
	security, hasSecurity := spec["security"]
	if err := validateAuthorizerReference(opts.DefaultAuthorizer, security, hasSecurity, "Default"); err != nil {
		return nil, err
	}

	p := &preparer{
		opts:        opts,
		cors:        withDiscoveredHeaders(opts.Cors, doc),
		operationOf: operationOf,
	}

	paths, _ := spec["paths"].(map[string]any)
	prepared := make(map[string]any, len(paths))
	for _, path := range doc.PathNames() {
		item, ok := paths[path].(map[string]any)
		if !ok {
			return nil, specerrors.New(specerrors.CodeUnsupportedPathMethod,
				"Path %s must be an object, got %T", path, paths[path])
		}
		if err := p.preparePathItem(path, item); err != nil {
			return nil, err
		}
		prepared[path] = item
	}
	spec["paths"] = prepared

	spec[ExtRequestValidators] = map[string]any{
		"all": map[string]any{
			"validateRequestBody":       true,
			"validateRequestParameters": true,
		},
	}
	spec[ExtRequestValidator] = "all"
	spec[ExtGatewayResponses] = p.gatewayResponses()

	schemes, err := mergeSecuritySchemes(existingSchemes, opts.SecuritySchemes)
	if err != nil {
		return nil, err
	}
	components["securitySchemes"] = schemes
	spec["components"] = components

	if opts.APIKey != nil {
		spec[ExtAPIKeySource] = opts.APIKey.Source
	}

	return spec, nil
}

func reverseIndex(lookup OperationLookup) (map[string]string, error) {
	ids := make([]string, 0, len(lookup))
	for id := range lookup {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := make(map[string]string, len(lookup))
	for _, id := range ids {
		op := lookup[id]
		key := OperationKey(op.Method, op.Path)
		if other, ok := res[key]; ok {
			return nil, specerrors.New(specerrors.CodeDuplicateOperation,
				"Operations %s and %s are both bound to %s %s", other, id, strings.ToLower(op.Method), op.Path)
		}
		res[key] = id
	}
	return res, nil
}

// ValidatePathItem rejects path item keys that are neither supported methods
// nor path item fields.
func ValidatePathItem(path string, item map[string]any) error {
	supported := make(map[string]bool, len(HTTPMethods)+len(pathItemFields))
	for _, k := range HTTPMethods {
		supported[k] = true
	}
	for _, k := range pathItemFields {
		supported[k] = true
	}

	var unsupported []string
	for k := range item {
		if !supported[k] {
			unsupported = append(unsupported, k)
		}
	}
	if len(unsupported) == 0 {
		return nil
	}
	sort.Strings(unsupported)

	plural := ""
	if len(unsupported) > 1 {
		plural = "s"
	}
	return specerrors.New(specerrors.CodeUnsupportedPathMethod,
		"Path %s contains unsupported method%s %s. Supported methods are %s.",
		path, plural, strings.Join(unsupported, ", "), strings.Join(HTTPMethods, ", "))
}

func (p *preparer) preparePathItem(path string, item map[string]any) error {
	if err := ValidatePathItem(path, item); err != nil {
		return err
	}

	for _, method := range HTTPMethods {
		v, ok := item[method]
		if !ok || v == nil {
			continue
		}
		op, ok := v.(map[string]any)
		if !ok {
			return specerrors.New(specerrors.CodeUnsupportedPathMethod,
				"Operation %s %s must be an object, got %T", method, path, v)
		}
		if err := p.prepareOperation(path, method, op); err != nil {
			return err
		}
	}

	if _, ok := item["options"]; !ok && p.cors != nil {
		item["options"] = corsOptionsMethod(p.cors)
	}
	return nil
}

func (p *preparer) prepareOperation(path, method string, op map[string]any) error {
	name := p.operationName(path, method, op)

	_, indexed := p.operationOf[OperationKey(method, path)]
	integration, ok := p.opts.Integrations[name]
	if !ok || !indexed {
		return specerrors.New(specerrors.CodeMissingIntegration,
			"Missing required integration for operation %s (%s %s)", name, method, path)
	}

	security, hasSecurity := op["security"]
	if err := validateAuthorizerReference(integration.MethodAuthorizer, security, hasSecurity, name); err != nil {
		return err
	}

	apiKeyRequired, hasAPIKeyOptions := p.apiKeyRequirement(integration)
	if apiKeyRequired && (p.opts.APIKey == nil || p.opts.APIKey.Source != APIKeySourceHeader) {
		return specerrors.New(specerrors.CodeInvalidApiKeyConfig,
			"Cannot require an API Key when API Key source is not %s: %s (%s %s)",
			APIKeySourceHeader, name, method, path)
	}

	if p.cors != nil {
		withCorsHeaders(op)
	}

	value, err := refs.Clone(integration.Integration)
	if err != nil {
		return fmt.Errorf("cloning integration of %s: %w", name, err)
	}
	op[ExtIntegration] = value

	auth := integration.MethodAuthorizer
	if auth == nil {
		auth = p.opts.DefaultAuthorizer
	}
	if auth == nil && !hasAPIKeyOptions {
		return nil
	}

	op["security"] = securitySnippet(auth, apiKeyRequired)
	if auth != nil && auth.AuthorizerID == AuthorizerNone {
		op[ExtAuth] = noAuth()
	}
	return nil
}

// operationName resolves the operation id bound to method and path, falling
// back to the operationId declared in the document.
func (p *preparer) operationName(path, method string, op map[string]any) string {
	if name, ok := p.operationOf[OperationKey(method, path)]; ok {
		return name
	}
	if id, ok := op["operationId"].(string); ok && id != "" {
		return id
	}
	return "<unknown>"
}

// apiKeyRequirement returns whether the method requires an api key and
// whether any api key setting applies to it.
func (p *preparer) apiKeyRequirement(integration MethodIntegration) (required bool, applies bool) {
	if integration.Options != nil && integration.Options.APIKeyRequired != nil {
		return *integration.Options.APIKeyRequired, true
	}
	if p.opts.APIKey != nil && p.opts.APIKey.RequiredByDefault {
		return true, true
	}
	return false, false
}

func (p *preparer) gatewayResponses() map[string]any {
	badRequestBody := map[string]any{
		"statusCode": 400,
		"responseTemplates": map[string]any{
			"application/json": `{"message": "$context.error.validationErrorString"}`,
		},
	}
	if p.cors != nil {
		badRequestBody["responseParameters"] = corsResponseParameters(p.cors, "gatewayresponse.header")
	}
	return map[string]any{"BAD_REQUEST_BODY": badRequestBody}
}
