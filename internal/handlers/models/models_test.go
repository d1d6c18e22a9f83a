package models

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/krateoplatformops/provider-runtime/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/specerrors"
)

type fakeGateway struct {
	mu     sync.Mutex
	models map[string]gateway.Model
	routes map[string]gateway.Route
	calls  []string
	fail   map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		models: map[string]gateway.Model{},
		routes: map[string]gateway.Route{},
		fail:   map[string]error{},
	}
}

func (f *fakeGateway) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeGateway) ListModels(_ context.Context, _ string) ([]gateway.Model, error) {
	var res []gateway.Model
	for _, m := range f.models {
		res = append(res, m)
	}
	return res, nil
}

func (f *fakeGateway) ListRoutes(_ context.Context, _ string) ([]gateway.Route, error) {
	var res []gateway.Route
	for _, r := range f.routes {
		res = append(res, r)
	}
	return res, nil
}

func (f *fakeGateway) CreateModel(_ context.Context, _ string, in gateway.ModelInput) (gateway.Model, error) {
	if err := f.record("create:" + in.Name); err != nil {
		return gateway.Model{}, err
	}
	return gateway.Model{ID: "new-" + in.Name, Name: in.Name}, nil
}

func (f *fakeGateway) UpdateModel(_ context.Context, _ string, modelID string, in gateway.ModelInput) (gateway.Model, error) {
	if err := f.record("update:" + modelID); err != nil {
		return gateway.Model{}, err
	}
	return gateway.Model{ID: modelID, Name: in.Name}, nil
}

func (f *fakeGateway) DeleteModel(_ context.Context, _ string, modelID string) error {
	return f.record("delete:" + modelID)
}

func (f *fakeGateway) AssociateModel(_ context.Context, _ string, routeID, modelName string) error {
	return f.record(fmt.Sprintf("associate:%s=%s", routeID, modelName))
}

func (f *fakeGateway) DisassociateModel(_ context.Context, _ string, routeID string) error {
	return f.record("disassociate:" + routeID)
}

type memStore map[blob.Location][]byte

func (m memStore) Get(_ context.Context, loc blob.Location) ([]byte, error) {
	body, ok := m[loc]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return body, nil
}

func (m memStore) Put(_ context.Context, loc blob.Location, body []byte) error {
	m[loc] = body
	return nil
}

const websocketSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "chat", "version": "1.0.0"},
  "paths": {
    "/a": {"post": {"operationId": "A", "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Message"}}}}, "responses": {}}},
    "/b": {"post": {"operationId": "B", "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/Message"}}}}, "responses": {}}},
    "/c": {"post": {"operationId": "C", "requestBody": {"content": {"application/json": {"schema": {"type": "object", "properties": {"m": {"$ref": "#/components/schemas/Message"}}}}}}, "responses": {}}},
    "/ping": {"post": {"operationId": "Ping", "responses": {}}}
  },
  "components": {
    "schemas": {
      "Message": {"type": "object", "properties": {"text": {"type": "string"}}, "required": ["text"]}
    }
  }
}`

var specLocation = blob.Location{Bucket: "assets", Key: "ws.json"}

func setup(t *testing.T) (*Handler, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	h := &Handler{
		Gateway:   gw,
		Store:     memStore{specLocation: []byte(websocketSpec)},
		Log:       logging.NewLogrLogger(logr.Discard()),
		BatchSize: 10,
	}
	return h, gw
}

func request(rt lifecycle.RequestType, routes map[string]string) lifecycle.Request[Properties] {
	return lifecycle.Request[Properties]{
		RequestType: rt,
		ResourceProperties: Properties{
			APIID:             "api1",
			InputSpecLocation: specLocation,
			RouteKeyToPath:    routes,
		},
	}
}

func TestNewPlan(t *testing.T) {
	existing := map[string]gateway.Model{
		"A": {ID: "mA", Name: "A"},
		"B": {ID: "mB", Name: "B"},
	}
	plan := NewPlan(existing, []string{"B", "C"})

	assert.Equal(t, []gateway.Model{{ID: "mA", Name: "A"}}, plan.ToDelete)
	assert.Equal(t, []string{"C"}, plan.ToAdd)
	assert.Equal(t, []string{"B"}, plan.ToUpdate)
}

func TestHandleConverges(t *testing.T) {
	h, gw := setup(t)
	gw.models["A"] = gateway.Model{ID: "mA", Name: "A"}
	gw.models["B"] = gateway.Model{ID: "mB", Name: "B"}
	gw.routes["A"] = gateway.Route{ID: "rA", Key: "A", RequestModels: map[string]string{"model": "A"}}
	gw.routes["B"] = gateway.Route{ID: "rB", Key: "B", RequestModels: map[string]string{"model": "B"}}

	res, err := h.Handle(context.Background(), request(lifecycle.Update, map[string]string{"B": "/b", "C": "/c"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"disassociate:rA", "delete:mA", "create:C", "update:mB"}, gw.calls)
	assert.Equal(t, "api1-models", res.PhysicalResourceID)
	assert.Equal(t, map[string]string{"B": "mB", "C": "new-C"}, res.Data[DataModels])
}

func TestHandleSkipsRoutesWithoutSchema(t *testing.T) {
	h, gw := setup(t)

	res, err := h.Handle(context.Background(), request(lifecycle.Create, map[string]string{"A": "/a", "Ping": "/ping"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"create:A"}, gw.calls)
	assert.Equal(t, map[string]string{"A": "new-A"}, res.Data[DataModels])
}

func TestHandleAssociatesRoutes(t *testing.T) {
	h, gw := setup(t)
	gw.models["B"] = gateway.Model{ID: "mB", Name: "B"}
	gw.routes["A"] = gateway.Route{ID: "rA", Key: "A"}
	gw.routes["B"] = gateway.Route{ID: "rB", Key: "B", RequestModels: map[string]string{"model": "B"}}

	req := request(lifecycle.Create, map[string]string{"A": "/a", "B": "/b"})
	req.ResourceProperties.AssociateRoutes = true

	_, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"create:A", "update:mB", "associate:rA=A"}, gw.calls)
}

func TestHandleDelete(t *testing.T) {
	h, gw := setup(t)
	gw.models["A"] = gateway.Model{ID: "mA", Name: "A"}
	gw.models["B"] = gateway.Model{ID: "mB", Name: "B"}
	gw.routes["A"] = gateway.Route{ID: "rA", Key: "A", RequestModels: map[string]string{"model": "A"}}
	gw.routes["B"] = gateway.Route{ID: "rB", Key: "B", RequestModels: map[string]string{"model": "other"}}

	req := request(lifecycle.Delete, nil)
	req.PhysicalResourceID = "api1-models"

	res, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "api1-models", res.PhysicalResourceID)

	assert.ElementsMatch(t, []string{"disassociate:rA", "delete:mA", "delete:mB"}, gw.calls)
	assert.Less(t, indexOf(gw.calls, "disassociate:rA"), indexOf(gw.calls, "delete:mA"))
}

func TestHandleErrors(t *testing.T) {
	t.Run("remote failure aborts", func(t *testing.T) {
		h, gw := setup(t)
		gw.fail["create:C"] = errors.New("throttled")

		_, err := h.Handle(context.Background(), request(lifecycle.Create, map[string]string{"C": "/c"}))
		assert.EqualError(t, err, "throttled")
	})

	t.Run("route path missing", func(t *testing.T) {
		h, gw := setup(t)

		_, err := h.Handle(context.Background(), request(lifecycle.Create, map[string]string{"X": "/x"}))
		require.Error(t, err)
		assert.True(t, specerrors.HasCode(err, specerrors.CodeUnresolvedReference))
		assert.Empty(t, gw.calls)
	})
}

// statefulGateway applies model mutations to the fake gateway state.
type statefulGateway struct {
	*fakeGateway
	seq int
}

func (g *statefulGateway) CreateModel(ctx context.Context, apiID string, in gateway.ModelInput) (gateway.Model, error) {
	m, err := g.fakeGateway.CreateModel(ctx, apiID, in)
	if err != nil {
		return m, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	m.ID = fmt.Sprintf("m%s-%d", in.Name, g.seq)
	g.models[in.Name] = m
	return m, nil
}

func (g *statefulGateway) DeleteModel(ctx context.Context, apiID string, modelID string) error {
	if err := g.fakeGateway.DeleteModel(ctx, apiID, modelID); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for name, m := range g.models {
		if m.ID == modelID {
			delete(g.models, name)
		}
	}
	return nil
}

func TestHandleRetryConverges(t *testing.T) {
	h, _ := setup(t)
	gw := &statefulGateway{fakeGateway: newFakeGateway()}
	gw.models["A"] = gateway.Model{ID: "mA", Name: "A"}
	gw.models["Old"] = gateway.Model{ID: "mOld", Name: "Old"}
	gw.fail["create:B"] = errors.New("throttled")
	h.Gateway = gw

	req := request(lifecycle.Update, map[string]string{"A": "/a", "B": "/b", "C": "/c"})

	_, err := h.Handle(context.Background(), req)
	require.EqualError(t, err, "throttled")
	assert.NotContains(t, gw.models, "Old")

	delete(gw.fail, "create:B")
	res, err := h.Handle(context.Background(), req)
	require.NoError(t, err)

	var names []string
	for name := range gw.models {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"A", "B", "C"}, names)

	ids := res.Data[DataModels].(map[string]string)
	for name, m := range gw.models {
		assert.Equal(t, m.ID, ids[name], name)
	}
}

func TestHandlePhysicalID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		want     string
	}{
		{name: "derived from api", want: "api1-models"},
		{name: "kept from request", incoming: "previous-models", want: "previous-models"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := setup(t)

			req := request(lifecycle.Update, map[string]string{"A": "/a"})
			req.PhysicalResourceID = tc.incoming

			res, err := h.Handle(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.PhysicalResourceID)
		})
	}
}

func TestModelSchema(t *testing.T) {
	h, _ := setup(t)
	gw := &capturingGateway{fakeGateway: newFakeGateway(), schemas: map[string]string{}}
	h.Gateway = gw

	_, err := h.Handle(context.Background(), request(lifecycle.Create, map[string]string{"C": "/c"}))
	require.NoError(t, err)

	schema := gw.schemas["C"]
	model, err := oasdoc.Unmarshal([]byte(schema))
	require.NoError(t, err)
	assert.Equal(t, []any{"route", "payload"}, model["required"])

	defs := model["definitions"].(map[string]any)
	assert.Contains(t, defs, "components_schemas_Message")
	assert.Contains(t, defs, "Payload")
	assert.NotContains(t, schema, "#/components/")
}

type capturingGateway struct {
	*fakeGateway
	schemas map[string]string
}

func (c *capturingGateway) CreateModel(ctx context.Context, apiID string, in gateway.ModelInput) (gateway.Model, error) {
	c.mu.Lock()
	c.schemas[in.Name] = in.Schema
	c.mu.Unlock()
	return c.fakeGateway.CreateModel(ctx, apiID, in)
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}
