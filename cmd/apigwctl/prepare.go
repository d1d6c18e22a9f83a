package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/krateoplatformops/apigateway-provider/internal/tools/fetch"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/oasdoc"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/prepare"
)

func runPrepare(ctx context.Context, source, optionsPath string, w io.Writer) error {
	raw, err := fetch.File(ctx, source)
	if err != nil {
		return err
	}
	doc, err := oasdoc.Load(raw)
	if err != nil {
		return err
	}

	opts, err := readOptions(optionsPath)
	if err != nil {
		return err
	}

	spec, err := prepare.PrepareAPISpec(doc, opts)
	if err != nil {
		return err
	}

	out, err := oasdoc.Marshal(spec)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func readOptions(path string) (prepare.Options, error) {
	var opts prepare.Options

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&opts); err != nil {
		return opts, fmt.Errorf("decoding options %s: %w", path, err)
	}
	return opts, nil
}
