package websocketmodels

import (
	"context"
	"errors"
	"fmt"
	"time"

	rtv1 "github.com/krateoplatformops/provider-runtime/apis/common/v1"
	"github.com/krateoplatformops/provider-runtime/pkg/controller"
	"github.com/krateoplatformops/provider-runtime/pkg/event"
	"github.com/krateoplatformops/provider-runtime/pkg/logging"
	"github.com/krateoplatformops/provider-runtime/pkg/meta"
	"github.com/krateoplatformops/provider-runtime/pkg/ratelimiter"
	"github.com/krateoplatformops/provider-runtime/pkg/reconciler"
	"github.com/krateoplatformops/provider-runtime/pkg/resource"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/record"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	websocketmodelsv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/websocketmodels/v1alpha1"
	"github.com/krateoplatformops/apigateway-provider/internal/controllers/logger"
	"github.com/krateoplatformops/apigateway-provider/internal/handlers/models"
	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/batch"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/gateway"
)

const (
	reconcileGracePeriod = 1 * time.Minute
	reconcileTimeout     = 4 * time.Minute
)

const (
	errNotWebSocketModels = "managed resource is not a WebSocketModels"
)

func Setup(mgr ctrl.Manager, o controller.Options, errorRetry workqueue.RateLimiter, store blob.Store, gw gateway.Client) error {
	name := reconciler.ControllerName(websocketmodelsv1alpha1.WebSocketModelsGroupKind)

	log := o.Logger.WithValues("controller", name)

	recorder := mgr.GetEventRecorderFor(name)

	r := reconciler.NewReconciler(mgr,
		resource.ManagedKind(websocketmodelsv1alpha1.WebSocketModelsGroupVersionKind),
		reconciler.WithExternalConnecter(&connector{
			kube:     mgr.GetClient(),
			log:      log,
			recorder: recorder,
			store:    store,
			gateway:  gw,
		}),
		reconciler.WithTimeout(reconcileTimeout),
		reconciler.WithCreationGracePeriod(reconcileGracePeriod),
		reconciler.WithPollInterval(o.PollInterval),
		reconciler.WithLogger(log),
		reconciler.WithRecorder(event.NewAPIRecorder(recorder)))

	co := o.ForControllerRuntime()
	if errorRetry != nil {
		co.RateLimiter = errorRetry
	}

	return ctrl.NewControllerManagedBy(mgr).
		Named(name).
		WithOptions(co).
		For(&websocketmodelsv1alpha1.WebSocketModels{}).
		Complete(ratelimiter.NewReconciler(name, r, o.GlobalRateLimiter))
}

type connector struct {
	kube     client.Client
	log      logging.Logger
	recorder record.EventRecorder
	store    blob.Store
	gateway  gateway.Client
}

func (c *connector) Connect(ctx context.Context, mg resource.Managed) (reconciler.ExternalClient, error) {
	cr, ok := mg.(*websocketmodelsv1alpha1.WebSocketModels)
	if !ok {
		return nil, errors.New(errNotWebSocketModels)
	}

	log := &logger.Logger{
		Verbose: meta.IsVerbose(cr),
		Logger:  c.log.WithValues("name", cr.Name, "namespace", cr.Namespace),
	}

	return &external{
		kube:    c.kube,
		log:     log,
		rec:     c.recorder,
		store:   c.store,
		gateway: c.gateway,
		handler: &models.Handler{
			Gateway:   c.gateway,
			Store:     c.store,
			Log:       log,
			BatchSize: batch.DefaultSize,
		},
	}, nil
}

type external struct {
	kube    client.Client
	log     logging.Logger
	rec     record.EventRecorder
	store   blob.Store
	gateway gateway.Client
	handler lifecycle.Handler[models.Properties]
}

func (e *external) Observe(ctx context.Context, mg resource.Managed) (reconciler.ExternalObservation, error) {
	cr, ok := mg.(*websocketmodelsv1alpha1.WebSocketModels)
	if !ok {
		return reconciler.ExternalObservation{}, errors.New(errNotWebSocketModels)
	}

	if meta.WasDeleted(cr) {
		e.log.Info("WebSocketModels was deleted, skipping observation")
		return reconciler.ExternalObservation{
			ResourceExists:   false,
			ResourceUpToDate: true,
		}, e.Delete(ctx, cr)
	}

	if cr.Status.Digest == "" {
		e.log.Debug("Models not reconciled yet", "apiId", cr.Spec.APIID)
		return reconciler.ExternalObservation{
			ResourceExists:   false,
			ResourceUpToDate: true,
		}, nil
	}

	input, err := inputContent(ctx, e.store, cr)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			e.log.Info("Input spec not found", "apiId", cr.Spec.APIID)
			cr.SetConditions(rtv1.Unavailable().WithMessage(err.Error()))
			return reconciler.ExternalObservation{
				ResourceExists:   true,
				ResourceUpToDate: true,
			}, nil
		}
		return reconciler.ExternalObservation{}, err
	}

	dig, err := digest(cr, input)
	if err != nil {
		return reconciler.ExternalObservation{}, err
	}
	if cr.Status.Digest != dig {
		e.log.Info("WebSocketModels digest changed", "status", cr.Status.Digest, "spec", dig)
		return reconciler.ExternalObservation{
			ResourceExists:   true,
			ResourceUpToDate: false,
		}, nil
	}

	remote, err := e.gateway.ListModels(ctx, cr.Spec.APIID)
	if err != nil {
		return reconciler.ExternalObservation{}, err
	}
	if drift := modelsDrift(cr.Status.Models, remote); len(drift) > 0 {
		e.log.Info("Remote models drifted", "apiId", cr.Spec.APIID, "models", drift)
		cr.SetConditions(rtv1.Unavailable().
			WithMessage(fmt.Sprintf("Models of api '%s' drifted", cr.Spec.APIID)))
		return reconciler.ExternalObservation{
			ResourceExists:   true,
			ResourceUpToDate: false,
		}, nil
	}

	cr.SetConditions(rtv1.Available())
	return reconciler.ExternalObservation{
		ResourceExists:   true,
		ResourceUpToDate: true,
	}, nil
}

func (e *external) Create(ctx context.Context, mg resource.Managed) error {
	cr, ok := mg.(*websocketmodelsv1alpha1.WebSocketModels)
	if !ok {
		return errors.New(errNotWebSocketModels)
	}

	if !meta.IsActionAllowed(cr, meta.ActionCreate) {
		e.log.Info("External resource should not be created by provider, skip creating.")
		return nil
	}

	e.log.Info("Creating WebSocketModels", "apiId", cr.Spec.APIID)

	if err := e.reconcile(ctx, cr, lifecycle.Create); err != nil {
		return err
	}

	e.log.Info("Created WebSocketModels", "apiId", cr.Spec.APIID, "models", len(cr.Status.Models))
	e.rec.Eventf(cr, corev1.EventTypeNormal, "WebSocketModelsCreating",
		"WebSocketModels '%s/%s' reconciled %d models", cr.Namespace, cr.Name, len(cr.Status.Models))
	return nil
}

func (e *external) Update(ctx context.Context, mg resource.Managed) error {
	cr, ok := mg.(*websocketmodelsv1alpha1.WebSocketModels)
	if !ok {
		return errors.New(errNotWebSocketModels)
	}

	if !meta.IsActionAllowed(cr, meta.ActionUpdate) {
		e.log.Info("External resource should not be updated by provider, skip updating.")
		return nil
	}

	e.log.Info("Updating WebSocketModels", "apiId", cr.Spec.APIID)

	if err := e.reconcile(ctx, cr, lifecycle.Update); err != nil {
		return err
	}

	e.log.Info("Updated WebSocketModels", "apiId", cr.Spec.APIID, "models", len(cr.Status.Models))
	e.rec.Eventf(cr, corev1.EventTypeNormal, "WebSocketModelsUpdating",
		"WebSocketModels '%s/%s' reconciled %d models", cr.Namespace, cr.Name, len(cr.Status.Models))
	return nil
}

func (e *external) Delete(ctx context.Context, mg resource.Managed) error {
	cr, ok := mg.(*websocketmodelsv1alpha1.WebSocketModels)
	if !ok {
		return errors.New(errNotWebSocketModels)
	}

	if !meta.IsActionAllowed(cr, meta.ActionDelete) {
		e.log.Info("External resource should not be deleted by provider, skip deleting.")
		return nil
	}

	e.log.Info("Deleting WebSocketModels", "apiId", cr.Spec.APIID)

	res := lifecycle.Invoke[models.Properties](ctx, models.Name, e.handler, lifecycle.Request[models.Properties]{
		RequestType:        lifecycle.Delete,
		PhysicalResourceID: models.PhysicalID(cr.Spec.APIID),
		ResourceProperties: toProperties(cr),
	}, e.log)
	if res.Status == lifecycle.StatusFailed {
		return errors.New(res.Reason)
	}

	e.log.Info("Deleted WebSocketModels", "apiId", cr.Spec.APIID)
	e.rec.Eventf(cr, corev1.EventTypeNormal, "WebSocketModelsDeleted",
		"WebSocketModels '%s/%s' deleted", cr.Namespace, cr.Name)
	return nil
}

func (e *external) reconcile(ctx context.Context, cr *websocketmodelsv1alpha1.WebSocketModels, rt lifecycle.RequestType) error {
	input, err := inputContent(ctx, e.store, cr)
	if err != nil {
		return e.failed(ctx, cr, err.Error())
	}
	dig, err := digest(cr, input)
	if err != nil {
		return err
	}

	res := lifecycle.Invoke[models.Properties](ctx, models.Name, e.handler, lifecycle.Request[models.Properties]{
		RequestType:        rt,
		PhysicalResourceID: models.PhysicalID(cr.Spec.APIID),
		ResourceProperties: toProperties(cr),
	}, e.log)

	if res.Status == lifecycle.StatusFailed {
		return e.failed(ctx, cr, res.Reason)
	}

	cr.SetConditions(rtv1.Creating())
	cr.Status.Models = modelIDs(res.Data)
	cr.Status.Digest = dig

	if err := e.kube.Status().Update(ctx, cr); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

func (e *external) failed(ctx context.Context, cr *websocketmodelsv1alpha1.WebSocketModels, reason string) error {
	cr.SetConditions(rtv1.Unavailable().WithMessage(reason))
	if err := e.kube.Status().Update(ctx, cr); err != nil {
		e.log.Debug("Updating status", "error", err.Error())
	}
	e.rec.Eventf(cr, corev1.EventTypeWarning, "WebSocketModelsFailed",
		"WebSocketModels '%s/%s' failed: %s", cr.Namespace, cr.Name, reason)
	return errors.New(reason)
}
