package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/krateoplatformops/provider-runtime/pkg/logging"

	"github.com/krateoplatformops/apigateway-provider/internal/handlers/models"
	"github.com/krateoplatformops/apigateway-provider/internal/handlers/publish"
	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/batch"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
)

type invokeEnv struct {
	store   blob.Store
	gateway gateway.Client
	log     logging.Logger
}

func newInvokeEnv(dir, region string, log logging.Logger) (*invokeEnv, error) {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}

	env := &invokeEnv{
		gateway: gateway.NewAPIGatewayV2(apigatewayv2.New(sess)),
		log:     log,
	}
	if dir != "" {
		env.store = &blob.Dir{Root: dir}
	} else {
		env.store = blob.WithRetry(blob.NewS3(s3.New(sess)), blob.RetryOptions{})
	}
	return env, nil
}

type invoker func(ctx context.Context, env *invokeEnv, in io.Reader) (lifecycle.Response, error)

var invokers = map[string]invoker{
	publish.Name: func(ctx context.Context, env *invokeEnv, in io.Reader) (lifecycle.Response, error) {
		req, err := lifecycle.DecodeRequest[publish.Properties](in)
		if err != nil {
			return lifecycle.Response{}, err
		}
		h := &publish.Handler{Store: env.store, Log: env.log}
		return lifecycle.Invoke[publish.Properties](ctx, publish.Name, h, req, env.log), nil
	},
	models.Name: func(ctx context.Context, env *invokeEnv, in io.Reader) (lifecycle.Response, error) {
		req, err := lifecycle.DecodeRequest[models.Properties](in)
		if err != nil {
			return lifecycle.Response{}, err
		}
		h := &models.Handler{Gateway: env.gateway, Store: env.store, Log: env.log, BatchSize: batch.DefaultSize}
		return lifecycle.Invoke[models.Properties](ctx, models.Name, h, req, env.log), nil
	},
}

func handlerNames() []string {
	res := make([]string, 0, len(invokers))
	for k := range invokers {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// runInvoke writes the lifecycle response of the named handler. A FAILED
// response is written too and reported as an error.
func runInvoke(ctx context.Context, name string, env *invokeEnv, in io.Reader, w io.Writer) error {
	fn, ok := invokers[name]
	if !ok {
		return fmt.Errorf("unknown handler %q", name)
	}

	res, err := fn(ctx, env, in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Status == lifecycle.StatusFailed {
		return fmt.Errorf("%s failed: %s", name, res.Reason)
	}
	return nil
}
