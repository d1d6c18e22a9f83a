// Package crd checks that custom resource definitions are served by the
// API server.
package crd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsscheme "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/scheme"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientsetscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Lookup reports whether the CRD of gvr exists and serves gvr's version.
func Lookup(ctx context.Context, kube client.Client, gvr schema.GroupVersionResource) (bool, error) {
	if err := registerEventually(); err != nil {
		return false, err
	}

	res := apiextensionsv1.CustomResourceDefinition{}
	err := kube.Get(ctx, client.ObjectKey{Name: gvr.GroupResource().String()}, &res, &client.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	for _, el := range res.Spec.Versions {
		if el.Name == gvr.Version && el.Served {
			return true, nil
		}
	}

	return false, nil
}

type RequireOptions struct {
	Attempts uint
	Delay    time.Duration
}

// Require waits until the CRDs of all gvrs are served.
func Require(ctx context.Context, kube client.Client, gvrs []schema.GroupVersionResource, opts RequireOptions) error {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}

	return retry.Do(
		func() error {
			var missing []string
			for _, gvr := range gvrs {
				ok, err := Lookup(ctx, kube, gvr)
				if err != nil {
					return err
				}
				if !ok {
					missing = append(missing, gvr.String())
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("CRDs not installed: %s", strings.Join(missing, "; "))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.LastErrorOnly(true),
	)
}

func registerEventually() error {
	if clientsetscheme.Scheme.IsGroupRegistered("apiextensions.k8s.io") {
		return nil
	}

	return apiextensionsscheme.AddToScheme(clientsetscheme.Scheme)
}
