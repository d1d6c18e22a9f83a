// Package models keeps the request models of a WebSocket API in sync with
// the routes declared in its OpenAPI document.
package models

import (
	"context"
	"fmt"
	"sort"

	"github.com/krateoplatformops/provider-runtime/pkg/logging"

	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/batch"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/metrics"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/wsschema"
)

const (
	Name = "models"

	// DataModels is the response data key holding model ids by route key.
	DataModels = "models"
)

type Properties struct {
	APIID             string            `json:"apiId"`
	InputSpecLocation blob.Location     `json:"inputSpecLocation"`
	RouteKeyToPath    map[string]string `json:"routeKeyToPath"`
	// AssociateRoutes makes every route validate requests with its model.
	AssociateRoutes bool `json:"associateRoutes,omitempty"`
}

// PhysicalID is the physical id of the models of an API.
func PhysicalID(apiID string) string {
	return apiID + "-models"
}

type Handler struct {
	Gateway   gateway.Client
	Store     blob.Store
	Log       logging.Logger
	BatchSize int
}

var _ lifecycle.Handler[Properties] = (*Handler)(nil)

// Plan lists the model changes needed to converge an API.
type Plan struct {
	ToDelete []gateway.Model
	ToAdd    []string
	ToUpdate []string
}

// NewPlan diffs the models of an API against the desired route keys.
func NewPlan(existing map[string]gateway.Model, desired []string) Plan {
	want := make(map[string]bool, len(desired))
	for _, k := range desired {
		want[k] = true
	}

	var p Plan
	for _, name := range sortedNames(existing) {
		if !want[name] {
			p.ToDelete = append(p.ToDelete, existing[name])
		}
	}
	for _, k := range desired {
		if _, ok := existing[k]; ok {
			p.ToUpdate = append(p.ToUpdate, k)
		} else {
			p.ToAdd = append(p.ToAdd, k)
		}
	}
	return p
}

func (h *Handler) Handle(ctx context.Context, req lifecycle.Request[Properties]) (lifecycle.Response, error) {
	props := req.ResourceProperties
	log := h.Log.WithValues("apiId", props.APIID)

	routes, err := h.Gateway.ListRoutes(ctx, props.APIID)
	if err != nil {
		return lifecycle.Response{}, err
	}
	routesByKey := make(map[string]gateway.Route, len(routes))
	for _, r := range routes {
		routesByKey[r.Key] = r
	}

	existing, err := h.modelsByName(ctx, props.APIID)
	if err != nil {
		return lifecycle.Response{}, err
	}

	if req.RequestType == lifecycle.Delete {
		toDelete := make([]gateway.Model, 0, len(existing))
		for _, name := range sortedNames(existing) {
			toDelete = append(toDelete, existing[name])
		}
		log.Info("Deleting models", "toDelete", modelNames(toDelete))

		if err := h.deleteModels(ctx, props.APIID, routesByKey, toDelete); err != nil {
			return lifecycle.Response{}, err
		}

		return lifecycle.Response{PhysicalResourceID: physicalID(req)}, nil
	}

	models, err := h.createOrUpdate(ctx, log, props, routesByKey, existing)
	if err != nil {
		return lifecycle.Response{}, err
	}

	return lifecycle.Response{
		PhysicalResourceID: physicalID(req),
		Data: map[string]any{
			DataModels: models,
		},
	}, nil
}

func (h *Handler) createOrUpdate(ctx context.Context, log logging.Logger, props Properties, routes map[string]gateway.Route, existing map[string]gateway.Model) (map[string]string, error) {
	plan := NewPlan(existing, wsschema.RouteKeys(props.RouteKeyToPath))
	log.Info("Planned model changes",
		"toDelete", modelNames(plan.ToDelete), "toAdd", plan.ToAdd, "toUpdate", plan.ToUpdate)

	if err := h.deleteModels(ctx, props.APIID, routes, plan.ToDelete); err != nil {
		return nil, err
	}

	raw, err := h.Store.Get(ctx, props.InputSpecLocation)
	if err != nil {
		return nil, fmt.Errorf("reading input spec %s: %w", props.InputSpecLocation, err)
	}
	doc, err := oasdoc.Load(raw)
	if err != nil {
		return nil, err
	}

	schemas, err := wsschema.ExtractSchemas(doc, append(append([]string{}, plan.ToAdd...), plan.ToUpdate...), props.RouteKeyToPath)
	if err != nil {
		return nil, err
	}

	inputs := make(map[string]gateway.ModelInput, len(schemas))
	for routeKey, schema := range schemas {
		model := wsschema.WrapSchema(schema)
		if err := wsschema.CheckModel(routeKey, model); err != nil {
			return nil, err
		}
		body, err := oasdoc.Marshal(model)
		if err != nil {
			return nil, fmt.Errorf("serializing model %s: %w", routeKey, err)
		}
		inputs[routeKey] = gateway.ModelInput{
			Name:        routeKey,
			ContentType: wsschema.ContentType,
			Schema:      string(body),
		}
	}

	res := map[string]string{}

	toAdd := withSchema(plan.ToAdd, inputs)
	created, err := batch.Run(ctx, toAdd, h.BatchSize, func(ctx context.Context, routeKey string) (gateway.Model, error) {
		m, err := h.Gateway.CreateModel(ctx, props.APIID, inputs[routeKey])
		if err == nil {
			metrics.ModelOperations.WithLabelValues(metrics.OpCreate).Inc()
		}
		return m, err
	})
	if err != nil {
		return nil, err
	}

	toUpdate := withSchema(plan.ToUpdate, inputs)
	updated, err := batch.Run(ctx, toUpdate, h.BatchSize, func(ctx context.Context, routeKey string) (gateway.Model, error) {
		m, err := h.Gateway.UpdateModel(ctx, props.APIID, existing[routeKey].ID, inputs[routeKey])
		if err == nil {
			metrics.ModelOperations.WithLabelValues(metrics.OpUpdate).Inc()
		}
		return m, err
	})
	if err != nil {
		return nil, err
	}

	for i, routeKey := range toAdd {
		res[routeKey] = created[i].ID
	}
	for i, routeKey := range toUpdate {
		res[routeKey] = updated[i].ID
	}

	if props.AssociateRoutes {
		if err := h.associateRoutes(ctx, props.APIID, routes, sortedKeys(res)); err != nil {
			return nil, err
		}
	}

	log.Debug("Models reconciled", "models", res)
	return res, nil
}

// deleteModels removes models, first clearing the association of the route
// validating requests with each of them.
func (h *Handler) deleteModels(ctx context.Context, apiID string, routes map[string]gateway.Route, models []gateway.Model) error {
	return batch.Each(ctx, models, h.BatchSize, func(ctx context.Context, m gateway.Model) error {
		if r, ok := routes[m.Name]; ok && r.AssociatedModel() == m.Name {
			if err := h.Gateway.DisassociateModel(ctx, apiID, r.ID); err != nil {
				return err
			}
			metrics.ModelOperations.WithLabelValues(metrics.OpDisassociate).Inc()
		}
		if err := h.Gateway.DeleteModel(ctx, apiID, m.ID); err != nil {
			return err
		}
		metrics.ModelOperations.WithLabelValues(metrics.OpDelete).Inc()
		return nil
	})
}

func (h *Handler) associateRoutes(ctx context.Context, apiID string, routes map[string]gateway.Route, routeKeys []string) error {
	var pending []gateway.Route
	for _, k := range routeKeys {
		if r, ok := routes[k]; ok && r.AssociatedModel() != k {
			pending = append(pending, r)
		}
	}
	return batch.Each(ctx, pending, h.BatchSize, func(ctx context.Context, r gateway.Route) error {
		if err := h.Gateway.AssociateModel(ctx, apiID, r.ID, r.Key); err != nil {
			return err
		}
		metrics.ModelOperations.WithLabelValues(metrics.OpAssociate).Inc()
		return nil
	})
}

func (h *Handler) modelsByName(ctx context.Context, apiID string) (map[string]gateway.Model, error) {
	models, err := h.Gateway.ListModels(ctx, apiID)
	if err != nil {
		return nil, err
	}
	res := make(map[string]gateway.Model, len(models))
	for _, m := range models {
		res[m.Name] = m
	}
	return res, nil
}

// physicalID keeps the id of an existing resource, so that changing the API
// does not replace it.
func physicalID(req lifecycle.Request[Properties]) string {
	if req.PhysicalResourceID != "" {
		return req.PhysicalResourceID
	}
	return PhysicalID(req.ResourceProperties.APIID)
}

func withSchema(routeKeys []string, inputs map[string]gateway.ModelInput) []string {
	var res []string
	for _, k := range routeKeys {
		if _, ok := inputs[k]; ok {
			res = append(res, k)
		}
	}
	return res
}

func modelNames(models []gateway.Model) []string {
	res := make([]string, 0, len(models))
	for _, m := range models {
		res = append(res, m.Name)
	}
	return res
}

func sortedNames(m map[string]gateway.Model) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func sortedKeys(m map[string]string) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
