// Package publish prepares an OpenAPI document for the gateway and stores it
// under a content addressed key.
package publish

import (
	"context"
	"fmt"
	"path"

	"github.com/krateoplatformops/provider-runtime/pkg/logging"

	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	hasher "github.com/krateoplatformops/apigateway-provider/internal/tools/hash"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/prepare"
)

const (
	Name = "publish"

	// DataOutputSpecKey is the response data key holding the written object key.
	DataOutputSpecKey = "outputSpecKey"
)

// Properties of a published spec. The embedded options drive preparation.
type Properties struct {
	InputSpecLocation  blob.Location `json:"inputSpecLocation"`
	OutputSpecLocation blob.Location `json:"outputSpecLocation"`
	prepare.Options
}

type Handler struct {
	Store blob.Store
	Log   logging.Logger
}

var _ lifecycle.Handler[Properties] = (*Handler)(nil)

func (h *Handler) Handle(ctx context.Context, req lifecycle.Request[Properties]) (lifecycle.Response, error) {
	if req.RequestType == lifecycle.Delete {
		// published objects are kept
		return lifecycle.Response{PhysicalResourceID: req.PhysicalResourceID}, nil
	}

	props := req.ResourceProperties

	raw, err := h.Store.Get(ctx, props.InputSpecLocation)
	if err != nil {
		return lifecycle.Response{}, fmt.Errorf("reading input spec %s: %w", props.InputSpecLocation, err)
	}

	doc, err := oasdoc.Load(raw)
	if err != nil {
		return lifecycle.Response{}, err
	}
	for _, w := range doc.Warnings() {
		h.Log.Debug("Input spec warning", "location", props.InputSpecLocation.String(), "warning", w.Error())
	}

	prepared, err := prepare.PrepareAPISpec(doc, props.Options)
	if err != nil {
		return lifecycle.Response{}, err
	}

	body, err := oasdoc.Marshal(prepared)
	if err != nil {
		return lifecycle.Response{}, fmt.Errorf("serializing prepared spec: %w", err)
	}

	out := blob.Location{
		Bucket: props.OutputSpecLocation.Bucket,
		Key:    OutputKey(props.OutputSpecLocation.Key, hasher.Content(body)),
	}
	if err := h.Store.Put(ctx, out, body); err != nil {
		return lifecycle.Response{}, fmt.Errorf("writing prepared spec %s: %w", out, err)
	}

	h.Log.Info("Published prepared spec", "location", out.String(), "paths", len(doc.PathNames()))

	return lifecycle.Response{
		PhysicalResourceID: out.Key,
		Data: map[string]any{
			DataOutputSpecKey: out.Key,
		},
	}, nil
}

// OutputKey is the key of a prepared spec with the given digest under prefix.
func OutputKey(prefix, digest string) string {
	return path.Join(prefix, digest+".json")
}
