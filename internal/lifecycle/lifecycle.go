// Package lifecycle defines the create/update/delete contract shared by the
// handlers and the way they are invoked.
package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/krateoplatformops/provider-runtime/pkg/logging"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/metrics"
)

type RequestType string

const (
	Create RequestType = "Create"
	Update RequestType = "Update"
	Delete RequestType = "Delete"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Request is a lifecycle event for a resource with properties P.
type Request[P any] struct {
	RequestType        RequestType `json:"requestType"`
	PhysicalResourceID string      `json:"physicalResourceId,omitempty"`
	ResourceProperties P           `json:"resourceProperties"`
}

// Response reports the outcome of a lifecycle event.
type Response struct {
	PhysicalResourceID string         `json:"physicalResourceId"`
	Status             Status         `json:"status"`
	Reason             string         `json:"reason,omitempty"`
	Data               map[string]any `json:"data,omitempty"`
}

// Handler handles lifecycle events for resources with properties P.
type Handler[P any] interface {
	Handle(ctx context.Context, req Request[P]) (Response, error)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc[P any] func(ctx context.Context, req Request[P]) (Response, error)

func (f HandlerFunc[P]) Handle(ctx context.Context, req Request[P]) (Response, error) {
	return f(ctx, req)
}

// Invoke runs h for req. Handler errors become FAILED responses carrying the
// error message as reason.
func Invoke[P any](ctx context.Context, name string, h Handler[P], req Request[P], log logging.Logger) Response {
	log = log.WithValues("handler", name, "requestType", req.RequestType)

	res, err := validate(req)
	if err == nil {
		res, err = h.Handle(ctx, req)
	}
	if err != nil {
		log.Info("Lifecycle request failed", "error", err.Error())
		metrics.Invocations.WithLabelValues(name, string(req.RequestType), string(StatusFailed)).Inc()

		id := req.PhysicalResourceID
		if id == "" {
			id = res.PhysicalResourceID
		}
		return Response{
			PhysicalResourceID: id,
			Status:             StatusFailed,
			Reason:             err.Error(),
		}
	}

	res.Status = StatusSuccess
	log.Debug("Lifecycle request succeeded", "physicalResourceId", res.PhysicalResourceID)
	metrics.Invocations.WithLabelValues(name, string(req.RequestType), string(StatusSuccess)).Inc()
	return res
}

func validate[P any](req Request[P]) (Response, error) {
	switch req.RequestType {
	case Create, Update, Delete:
		return Response{}, nil
	}
	return Response{}, fmt.Errorf("unsupported request type %q", req.RequestType)
}

// DecodeRequest reads a JSON encoded request. Numbers inside the properties
// are kept as json.Number.
func DecodeRequest[P any](r io.Reader) (Request[P], error) {
	var req Request[P]

	data, err := io.ReadAll(r)
	if err != nil {
		return req, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decoding lifecycle request: %w", err)
	}
	return req, nil
}
