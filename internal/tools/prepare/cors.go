package prepare

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/refs"
)

const (
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerAllowHeaders = "Access-Control-Allow-Headers"
)

var corsHeaders = []string{headerAllowOrigin, headerAllowMethods, headerAllowHeaders}

// corsHeaderDefinitions are the response headers declared on every operation.
func corsHeaderDefinitions() map[string]any {
	res := make(map[string]any, len(corsHeaders))
	for _, h := range corsHeaders {
		res[h] = map[string]any{
			"schema": map[string]any{"type": "string"},
		}
	}
	return res
}

// corsResponseParameters maps prefixed header names to single quoted literal values.
func corsResponseParameters(cors *CorsOptions, prefix string) map[string]any {
	return map[string]any{
		fmt.Sprintf("%s.%s", prefix, headerAllowHeaders): quote(cors.AllowHeaders),
		fmt.Sprintf("%s.%s", prefix, headerAllowMethods): quote(cors.AllowMethods),
		fmt.Sprintf("%s.%s", prefix, headerAllowOrigin):  quote(cors.AllowOrigins),
	}
}

func quote(values []string) string {
	return "'" + strings.Join(values, ",") + "'"
}

// withCorsHeaders adds the CORS header definitions to every response of op.
// Headers the document already declares are kept.
func withCorsHeaders(op map[string]any) {
	responses, ok := op["responses"].(map[string]any)
	if !ok {
		return
	}
	for _, v := range responses {
		resp, ok := v.(map[string]any)
		if !ok {
			continue
		}
		headers := corsHeaderDefinitions()
		if existing, ok := resp["headers"].(map[string]any); ok {
			for k, h := range existing {
				headers[k] = h
			}
		}
		resp["headers"] = headers
	}
}

// corsOptionsMethod synthesizes a preflight operation answered by a mock integration.
func corsOptionsMethod(cors *CorsOptions) map[string]any {
	status := strconv.Itoa(cors.StatusCode)
	return map[string]any{
		"summary":     "CORS Support",
		"description": "Enable CORS by returning the correct headers",
		"responses": map[string]any{
			status: map[string]any{
				"description": "Default response for CORS method",
				"headers":     corsHeaderDefinitions(),
				"content":     map[string]any{},
			},
		},
		ExtIntegration: map[string]any{
			"type": "mock",
			"requestTemplates": map[string]any{
				"application/json": fmt.Sprintf(`{"statusCode": %d}`, cors.StatusCode),
			},
			"responses": map[string]any{
				"default": map[string]any{
					"statusCode":         status,
					"responseParameters": corsResponseParameters(cors, "method.response.header"),
					"responseTemplates": map[string]any{
						"application/json": "{}",
					},
				},
			},
		},
		"security": []any{},
		ExtAuth:    noAuth(),
	}
}

// findHeaderParameters lists the names of header parameters declared on path
// items and operations, in document path order then canonical method order.
func findHeaderParameters(doc *oasdoc.Document) []string {
	var res []string
	collect := func(params any) {
		list, ok := params.([]any)
		if !ok {
			return
		}
		for _, p := range list {
			param, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if ref, isRef := refs.IsRef(param); isRef {
				target, err := refs.Resolve(doc.Spec(), ref)
				if err != nil {
					continue
				}
				if param, ok = target.(map[string]any); !ok {
					continue
				}
			}
			if param["in"] != "header" {
				continue
			}
			if name, ok := param["name"].(string); ok {
				res = append(res, name)
			}
		}
	}

	for _, path := range doc.PathNames() {
		item, ok := doc.PathItem(path)
		if !ok {
			continue
		}
		collect(item["parameters"])
		for _, method := range HTTPMethods {
			if op, ok := item[method].(map[string]any); ok {
				collect(op["parameters"])
			}
		}
	}
	return res
}

// withDiscoveredHeaders returns a copy of cors whose allowed headers also
// include the header parameters of doc, de-duplicated in first appearance order.
func withDiscoveredHeaders(cors *CorsOptions, doc *oasdoc.Document) *CorsOptions {
	if cors == nil {
		return nil
	}
	res := *cors
	res.AllowHeaders = dedupe(append(append([]string{}, cors.AllowHeaders...), findHeaderParameters(doc)...))
	return &res
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	res := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		res = append(res, v)
	}
	return res
}
