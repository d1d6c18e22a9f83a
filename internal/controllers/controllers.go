package controllers

import (
	"github.com/krateoplatformops/provider-runtime/pkg/controller"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/krateoplatformops/apigateway-provider/internal/controllers/preparedspec"
	"github.com/krateoplatformops/apigateway-provider/internal/controllers/websocketmodels"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
)

// Setup creates all controllers with the supplied options and adds them to
// the supplied manager. errorRetry, when set, replaces the per-item backoff
// applied after a failed reconcile.
func Setup(mgr ctrl.Manager, o controller.Options, errorRetry workqueue.RateLimiter, store blob.Store, gw gateway.Client) error {
	if err := preparedspec.Setup(mgr, o, errorRetry, store); err != nil {
		return err
	}
	return websocketmodels.Setup(mgr, o, errorRetry, store, gw)
}
