// Package gateway manages request models and route associations of a
// WebSocket API.
package gateway

import (
	"context"
)

// ModelSelectionKey is the request model key routes are associated under.
const ModelSelectionKey = "model"

type Model struct {
	ID   string
	Name string
}

type Route struct {
	ID            string
	Key           string
	RequestModels map[string]string
}

// AssociatedModel returns the name of the model the route validates requests with.
func (r Route) AssociatedModel() string {
	return r.RequestModels[ModelSelectionKey]
}

type ModelInput struct {
	Name        string
	ContentType string
	Schema      string
}

// Client is the subset of the gateway API used to reconcile models.
type Client interface {
	ListModels(ctx context.Context, apiID string) ([]Model, error)
	ListRoutes(ctx context.Context, apiID string) ([]Route, error)
	CreateModel(ctx context.Context, apiID string, in ModelInput) (Model, error)
	UpdateModel(ctx context.Context, apiID, modelID string, in ModelInput) (Model, error)
	DeleteModel(ctx context.Context, apiID, modelID string) error
	// AssociateModel makes route validate requests against the model named modelName.
	AssociateModel(ctx context.Context, apiID, routeID, modelName string) error
	// DisassociateModel clears the request model of a route.
	DisassociateModel(ctx context.Context, apiID, routeID string) error
}
