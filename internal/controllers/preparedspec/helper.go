package preparedspec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	preparedspecv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/preparedspecs/v1alpha1"
	"github.com/krateoplatformops/apigateway-provider/internal/handlers/publish"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	hasher "github.com/krateoplatformops/apigateway-provider/internal/tools/hash"
)

// toProperties converts the resource spec into publish properties. The spec
// shares the properties wire format, numbers in opaque fields are preserved.
func toProperties(cr *preparedspecv1alpha1.PreparedSpec) (publish.Properties, error) {
	var props publish.Properties

	data, err := json.Marshal(cr.Spec)
	if err != nil {
		return props, fmt.Errorf("encoding spec: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&props); err != nil {
		return props, fmt.Errorf("decoding publish properties: %w", err)
	}
	return props, nil
}

// digest hashes the decoded properties together with the content hash of the
// input document. Opaque fields are compared by value and not by their
// serialized key order.
func digest(cr *preparedspecv1alpha1.PreparedSpec, input string) (string, error) {
	props, err := toProperties(cr)
	if err != nil {
		return "", err
	}

	h := hasher.NewFNVObjectHash()
	if err := h.SumHash(props, input); err != nil {
		return "", fmt.Errorf("hashing spec: %w", err)
	}
	return h.GetHash(), nil
}

// inputContent returns the content hash of the input document.
func inputContent(ctx context.Context, store blob.Store, cr *preparedspecv1alpha1.PreparedSpec) (string, error) {
	loc := inputLocation(cr)
	raw, err := store.Get(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("reading input spec %s: %w", loc, err)
	}
	return hasher.Content(raw), nil
}

func inputLocation(cr *preparedspecv1alpha1.PreparedSpec) blob.Location {
	return blob.Location{
		Bucket: cr.Spec.InputSpecLocation.Bucket,
		Key:    cr.Spec.InputSpecLocation.Key,
	}
}

func outputLocation(cr *preparedspecv1alpha1.PreparedSpec) blob.Location {
	return blob.Location{
		Bucket: cr.Spec.OutputSpecLocation.Bucket,
		Key:    cr.Status.OutputSpecKey,
	}
}
