package main

import (
	"context"
	"io"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/fetch"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/wsschema"
)

// runExtract writes the gateway model of every route with a request body,
// keyed by route key.
func runExtract(ctx context.Context, source string, routeKeyToPath map[string]string, w io.Writer) error {
	raw, err := fetch.File(ctx, source)
	if err != nil {
		return err
	}
	doc, err := oasdoc.Load(raw)
	if err != nil {
		return err
	}

	schemas, err := wsschema.ExtractSchemas(doc, wsschema.RouteKeys(routeKeyToPath), routeKeyToPath)
	if err != nil {
		return err
	}

	res := make(map[string]any, len(schemas))
	for routeKey, schema := range schemas {
		model := wsschema.WrapSchema(schema)
		if err := wsschema.CheckModel(routeKey, model); err != nil {
			return err
		}
		res[routeKey] = model
	}

	out, err := oasdoc.Marshal(res)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
