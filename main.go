package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigatewayv2"
	"github.com/aws/aws-sdk-go/service/s3"
	"gopkg.in/alecthomas/kingpin.v2"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/krateoplatformops/provider-runtime/pkg/controller"
	"github.com/krateoplatformops/provider-runtime/pkg/logging"
	"github.com/krateoplatformops/provider-runtime/pkg/ratelimiter"

	"github.com/krateoplatformops/apigateway-provider/apis"
	preparedspecv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/preparedspecs/v1alpha1"
	websocketmodelsv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/websocketmodels/v1alpha1"
	"github.com/krateoplatformops/apigateway-provider/internal/controllers"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/crd"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/metrics"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/plurals"

	"github.com/stoewer/go-strcase"
)

const (
	providerName = "apigateway"
)

func main() {
	envVarPrefix := fmt.Sprintf("%s_PROVIDER", strcase.UpperSnakeCase(providerName))
	envVar := func(name string) string {
		return fmt.Sprintf("%s_%s", envVarPrefix, name)
	}

	app := kingpin.New(fmt.Sprintf("%s-provider", strcase.KebabCase(providerName)), "Publishes API Gateway specs and reconciles WebSocket models.")

	debug := app.Flag("debug", "Run with debug logging.").Envar(envVar("DEBUG")).Short('d').Bool()
	namespace := app.Flag("namespace", "Watch resources only in this namespace.").Envar(envVar("NAMESPACE")).Default("").String()
	syncPeriod := app.Flag("sync", "Controller manager sync period such as 300ms, 1.5h, or 2h45m").Envar(envVar("SYNC")).Default("1h").Duration()
	pollInterval := app.Flag("poll", "Poll interval controls how often an individual resource should be checked for drift.").Envar(envVar("POLL_INTERVAL")).Default("3m").Duration()
	maxReconcileRate := app.Flag("max-reconcile-rate", "The global maximum rate per second at which resources may checked for drift from the desired state.").Envar(envVar("MAX_RECONCILE_RATE")).Default("3").Int()
	leaderElection := app.Flag("leader-election", "Use leader election for the controller manager.").Envar(envVar("LEADER_ELECTION")).Default("false").Bool()
	maxErrorRetryInterval := app.Flag("max-error-retry-interval", "The maximum interval between retries when an error occurs. This should be less than the half of the poll interval.").Envar(envVar("MAX_ERROR_RETRY_INTERVAL")).Default("0s").Duration()
	minErrorRetryInterval := app.Flag("min-error-retry-interval", "The minimum interval between retries when an error occurs. This should be less than max-error-retry-interval.").Envar(envVar("MIN_ERROR_RETRY_INTERVAL")).Default("1s").Duration()
	awsRegion := app.Flag("aws-region", "Region of the gateway and of the object storage.").Envar(envVar("AWS_REGION")).Default("eu-west-1").String()
	crdWaitAttempts := app.Flag("crd-wait-attempts", "Times the provider CRDs are looked up before giving up.").Envar(envVar("CRD_WAIT_ATTEMPTS")).Default("12").Uint()
	storageRetries := app.Flag("storage-retries", "Attempts for every object storage read or write.").Envar(envVar("STORAGE_RETRIES")).Default("3").Uint()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	log.Default().SetOutput(io.Discard)
	ctrl.SetLogger(zap.New(zap.WriteTo(io.Discard)))

	zl := zap.New(zap.UseDevMode(*debug))
	logr := logging.NewLogrLogger(zl.WithName(fmt.Sprintf("%s-provider", strcase.KebabCase(providerName))))
	if *debug {
		ctrl.SetLogger(zl)
	}

	if maxErrorRetryInterval.Seconds() == 0 {
		retryInterval := (*pollInterval / 2)
		maxErrorRetryInterval = &retryInterval
	} else if maxErrorRetryInterval.Seconds() >= pollInterval.Seconds() {
		retryInterval := (*pollInterval / 2)
		maxErrorRetryInterval = &retryInterval

		logr.Info("[WARNING] max-error-retry-interval is greater than or equal to poll interval, setting to half of poll interval", "max-error-retry-interval", maxErrorRetryInterval.String())
	}

	if minErrorRetryInterval.Seconds() >= maxErrorRetryInterval.Seconds() {
		retryInterval := 1 * time.Second
		minErrorRetryInterval = &retryInterval

		logr.Info("[WARNING] min-error-retry-interval is greater than or equal to max-error-retry-interval, setting to 1 second", "min-error-retry-interval", minErrorRetryInterval.String())
	}

	logr.Debug("Starting", "sync-period", syncPeriod.String(), "poll-interval", pollInterval.String(), "max-error-retry-interval", maxErrorRetryInterval.String())

	cfg, err := ctrl.GetConfig()
	if err != nil {
		log.Fatalf("Cannot get API server rest config: %v", err)
	}

	co := cache.Options{
		SyncPeriod: syncPeriod,
	}
	if len(*namespace) > 0 {
		co.DefaultNamespaces = map[string]cache.Config{
			*namespace: {},
		}
	}

	mgr, err := ctrl.NewManager(cfg, ctrl.Options{
		LeaderElection:   *leaderElection,
		LeaderElectionID: fmt.Sprintf("leader-election-%s-provider", strcase.KebabCase(providerName)),
		Cache:            co,
	})
	if err != nil {
		log.Fatalf("Cannot create controller manager: %v", err)
	}

	sess, err := session.NewSession(aws.NewConfig().WithRegion(*awsRegion))
	if err != nil {
		log.Fatalf("Cannot create AWS session: %v", err)
	}
	store := blob.WithRetry(blob.NewS3(s3.New(sess)), blob.RetryOptions{Attempts: *storageRetries})
	gw := gateway.NewAPIGatewayV2(apigatewayv2.New(sess))

	if err := metrics.Register(ctrlmetrics.Registry); err != nil {
		log.Fatalf("Cannot register metrics: %v", err)
	}

	o := controller.Options{
		Logger:                  logr,
		MaxConcurrentReconciles: *maxReconcileRate,
		PollInterval:            *pollInterval,
		GlobalRateLimiter:       ratelimiter.NewGlobal(*maxReconcileRate),
	}

	if err := apis.AddToScheme(mgr.GetScheme()); err != nil {
		log.Fatalf("Cannot add APIs to scheme: %v", err)
	}

	kube, err := client.New(cfg, client.Options{})
	if err != nil {
		log.Fatalf("Cannot create kube client: %v", err)
	}
	err = crd.Require(context.Background(), kube, []schema.GroupVersionResource{
		plurals.ToGroupVersionResource(preparedspecv1alpha1.PreparedSpecGroupVersionKind),
		plurals.ToGroupVersionResource(websocketmodelsv1alpha1.WebSocketModelsGroupVersionKind),
	}, crd.RequireOptions{Attempts: *crdWaitAttempts, Delay: 5 * time.Second})
	if err != nil {
		log.Fatalf("Cannot find provider CRDs: %v", err)
	}
	if err := controllers.Setup(mgr, o, workqueue.NewItemExponentialFailureRateLimiter(*minErrorRetryInterval, *maxErrorRetryInterval), store, gw); err != nil {
		log.Fatalf("Cannot setup controllers: %v", err)
	}
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		log.Fatalf("Cannot start controller manager: %v", err)
	}
}
