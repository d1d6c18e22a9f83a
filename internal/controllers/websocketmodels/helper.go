package websocketmodels

import (
	"context"
	"fmt"
	"sort"

	websocketmodelsv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/websocketmodels/v1alpha1"
	"github.com/krateoplatformops/apigateway-provider/internal/handlers/models"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
	hasher "github.com/krateoplatformops/apigateway-provider/internal/tools/hash"
)

func toProperties(cr *websocketmodelsv1alpha1.WebSocketModels) models.Properties {
	routes := make(map[string]string, len(cr.Spec.RouteKeyToPath))
	for k, v := range cr.Spec.RouteKeyToPath {
		routes[k] = v
	}
	return models.Properties{
		APIID: cr.Spec.APIID,
		InputSpecLocation: blob.Location{
			Bucket: cr.Spec.InputSpecLocation.Bucket,
			Key:    cr.Spec.InputSpecLocation.Key,
		},
		RouteKeyToPath:  routes,
		AssociateRoutes: cr.Spec.AssociateRoutes,
	}
}

// digest hashes the spec fields together with the content hash of the input
// document.
func digest(cr *websocketmodelsv1alpha1.WebSocketModels, input string) (string, error) {
	h := hasher.NewFNVObjectHash()
	if err := h.SumHash(cr.Spec.APIID, cr.Spec.InputSpecLocation,
		cr.Spec.RouteKeyToPath, cr.Spec.AssociateRoutes, input); err != nil {
		return "", fmt.Errorf("hashing spec: %w", err)
	}
	return h.GetHash(), nil
}

func inputContent(ctx context.Context, store blob.Store, cr *websocketmodelsv1alpha1.WebSocketModels) (string, error) {
	loc := toProperties(cr).InputSpecLocation
	raw, err := store.Get(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("reading input spec %s: %w", loc, err)
	}
	return hasher.Content(raw), nil
}

func modelIDs(data map[string]any) map[string]string {
	res, _ := data[models.DataModels].(map[string]string)
	return res
}

// modelsDrift returns the route keys whose recorded model is missing on the
// gateway or carries another id.
func modelsDrift(recorded map[string]string, remote []gateway.Model) []string {
	byName := make(map[string]string, len(remote))
	for _, m := range remote {
		byName[m.Name] = m.ID
	}

	var res []string
	for routeKey, id := range recorded {
		if byName[routeKey] != id {
			res = append(res, routeKey)
		}
	}
	sort.Strings(res)
	return res
}
