package prepare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/refs"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
)

// securityRequirements is a flattened OpenAPI security requirement list.
type securityRequirements struct {
	ids    []string
	scopes map[string][]string
}

func parseSecurity(v any) (securityRequirements, error) {
	res := securityRequirements{scopes: map[string][]string{}}

	list, ok := v.([]any)
	if !ok {
		return res, fmt.Errorf("security must be an array, got %T", v)
	}

	for i, el := range list {
		req, ok := el.(map[string]any)
		if !ok {
			return res, fmt.Errorf("security requirement %d must be an object, got %T", i, el)
		}

		keys := make([]string, 0, len(req))
		for k := range req {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, id := range keys {
			scopes, err := stringList(req[id])
			if err != nil {
				return res, fmt.Errorf("scopes of security requirement %s: %w", id, err)
			}
			if _, seen := res.scopes[id]; !seen {
				res.ids = append(res.ids, id)
			}
			res.scopes[id] = scopes
		}
	}

	return res, nil
}

// validateAuthorizerReference checks that applying ref does not silently
// override the security requirements declared in the document. A null
// requirement list counts as absent.
func validateAuthorizerReference(ref *AuthorizerReference, security any, present bool, operation string) error {
	if ref == nil || !present || security == nil {
		return nil
	}

	reqs, err := parseSecurity(security)
	if err != nil {
		return specerrors.Wrap(specerrors.CodeAuthorizerConflict, err,
			"%s security requirements defined in the OpenAPI document are malformed", operation)
	}

	switch len(reqs.ids) {
	case 0:
		if ref.AuthorizerID != AuthorizerNone {
			return specerrors.New(specerrors.CodeAuthorizerConflict,
				"%s explicitly defines no auth in the OpenAPI document, which would be overridden by authorizer %s",
				operation, ref.AuthorizerID)
		}
		return nil
	case 1:
	default:
		return specerrors.New(specerrors.CodeAuthorizerConflict,
			"%s authorizers %s defined in the OpenAPI document would be overridden by single authorizer %s",
			operation, strings.Join(reqs.ids, ", "), ref.AuthorizerID)
	}

	id := reqs.ids[0]
	if id != ref.AuthorizerID {
		return specerrors.New(specerrors.CodeAuthorizerConflict,
			"%s authorizer %s defined in the OpenAPI document would be overridden by authorizer %s",
			operation, id, ref.AuthorizerID)
	}

	if diff := symmetricDifference(reqs.scopes[id], ref.AuthorizationScopes); len(diff) > 0 {
		return specerrors.New(specerrors.CodeAuthorizerConflict,
			"%s authorizer scopes [%s] defined in the OpenAPI document differ from the configured scopes [%s]: %s",
			operation, strings.Join(reqs.scopes[id], ", "), strings.Join(ref.AuthorizationScopes, ", "), strings.Join(diff, ", "))
	}

	return nil
}

// validateSecuritySchemes checks configured schemes against the ones the
// document already declares under the same id.
func validateSecuritySchemes(configured map[string]any, existing map[string]any) error {
	ids := make([]string, 0, len(configured))
	for id := range configured {
		if _, ok := existing[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, isRef := refs.IsRef(existing[id]); isRef {
			return specerrors.New(specerrors.CodeSecuritySchemeConflict,
				"Security scheme with id %s is a reference in the OpenAPI document, which is not supported", id)
		}

		want, _ := configured[id].(map[string]any)
		got, _ := existing[id].(map[string]any)

		for _, field := range []string{"type", ExtAuthType} {
			if fmt.Sprint(got[field]) != fmt.Sprint(want[field]) {
				return specerrors.New(specerrors.CodeSecuritySchemeConflict,
					"Security scheme with id %s was of %s %v in the OpenAPI document, but %v is configured",
					id, field, got[field], want[field])
			}
		}
	}

	return nil
}

// mergeSecuritySchemes returns document schemes overlaid with configured ones.
func mergeSecuritySchemes(existing, configured map[string]any) (map[string]any, error) {
	res := make(map[string]any, len(existing)+len(configured))
	for id, v := range existing {
		res[id] = v
	}
	for id, v := range configured {
		c, err := refs.Clone(v)
		if err != nil {
			return nil, err
		}
		res[id] = c
	}
	return res, nil
}

// securitySnippet renders the security requirement list for an operation.
func securitySnippet(auth *AuthorizerReference, apiKeyRequired bool) []any {
	res := []any{}
	if auth != nil && auth.AuthorizerID != AuthorizerNone {
		scopes := make([]any, 0, len(auth.AuthorizationScopes))
		for _, s := range auth.AuthorizationScopes {
			scopes = append(scopes, s)
		}
		res = append(res, map[string]any{auth.AuthorizerID: scopes})
	}
	if apiKeyRequired {
		res = append(res, map[string]any{AuthorizerAPIKey: []any{}})
	}
	return res
}

func noAuth() map[string]any {
	return map[string]any{"type": "NONE"}
}

func symmetricDifference(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, s := range a {
		inA[s] = true
	}
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}

	seen := map[string]bool{}
	var res []string
	for _, s := range append(append([]string{}, a...), b...) {
		if inA[s] != inB[s] && !seen[s] {
			seen[s] = true
			res = append(res, s)
		}
	}
	sort.Strings(res)
	return res
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			return ss, nil
		}
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
	res := make([]string, 0, len(list))
	for _, el := range list {
		s, ok := el.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", el)
		}
		res = append(res, s)
	}
	return res, nil
}
