package preparedspec

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

	preparedspecv1alpha1 "github.com/krateoplatformops/apigateway-provider/apis/preparedspecs/v1alpha1"
	"github.com/krateoplatformops/apigateway-provider/internal/controllers/logger"
	"github.com/krateoplatformops/apigateway-provider/internal/handlers/publish"
	"github.com/krateoplatformops/apigateway-provider/internal/lifecycle"
	"github.com/krateoplatformops/apigateway-provider/internal/tools/blob"
)

const (
	reconcileGracePeriod = 1 * time.Minute
	reconcileTimeout     = 4 * time.Minute
)

const (
	errNotPreparedSpec = "managed resource is not a PreparedSpec"
)

func Setup(mgr ctrl.Manager, o controller.Options, errorRetry workqueue.RateLimiter, store blob.Store) error {
	name := reconciler.ControllerName(preparedspecv1alpha1.PreparedSpecGroupKind)

	log := o.Logger.WithValues("controller", name)

	recorder := mgr.GetEventRecorderFor(name)

	r := reconciler.NewReconciler(mgr,
		resource.ManagedKind(preparedspecv1alpha1.PreparedSpecGroupVersionKind),
		reconciler.WithExternalConnecter(&connector{
			kube:     mgr.GetClient(),
			log:      log,
			recorder: recorder,
			store:    store,
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
		For(&preparedspecv1alpha1.PreparedSpec{}).
		Complete(ratelimiter.NewReconciler(name, r, o.GlobalRateLimiter))
}

type connector struct {
	kube     client.Client
	log      logging.Logger
	recorder record.EventRecorder
	store    blob.Store
}

func (c *connector) Connect(ctx context.Context, mg resource.Managed) (reconciler.ExternalClient, error) {
	cr, ok := mg.(*preparedspecv1alpha1.PreparedSpec)
	if !ok {
		return nil, errors.New(errNotPreparedSpec)
	}

	log := &logger.Logger{
		Verbose: meta.IsVerbose(cr),
		Logger:  c.log.WithValues("name", cr.Name, "namespace", cr.Namespace),
	}

	return &external{
		kube:  c.kube,
		log:   log,
		rec:   c.recorder,
		store: c.store,
		handler: &publish.Handler{
			Store: c.store,
			Log:   log,
		},
	}, nil
}

// An ExternalClient observes, then either creates, updates, or deletes an
// external resource to ensure it reflects the managed resource's desired state.
type external struct {
	kube    client.Client
	log     logging.Logger
	rec     record.EventRecorder
	store   blob.Store
	handler lifecycle.Handler[publish.Properties]
}

func (e *external) Observe(ctx context.Context, mg resource.Managed) (reconciler.ExternalObservation, error) {
	cr, ok := mg.(*preparedspecv1alpha1.PreparedSpec)
	if !ok {
		return reconciler.ExternalObservation{}, errors.New(errNotPreparedSpec)
	}

	if meta.WasDeleted(cr) {
		e.log.Info("PreparedSpec was deleted, skipping observation")
		return reconciler.ExternalObservation{
			ResourceExists:   false,
			ResourceUpToDate: true,
		}, e.Delete(ctx, cr)
	}

	if cr.Status.OutputSpecKey == "" {
		e.log.Debug("PreparedSpec not published yet")
		return reconciler.ExternalObservation{
			ResourceExists:   false,
			ResourceUpToDate: true,
		}, nil
	}

	out := outputLocation(cr)
	if _, err := e.store.Get(ctx, out); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			e.log.Info("Prepared spec not found", "location", out.String())
			cr.SetConditions(rtv1.Unavailable().
				WithMessage(fmt.Sprintf("Prepared spec '%s' not found", out.String())))
			return reconciler.ExternalObservation{
				ResourceExists:   false,
				ResourceUpToDate: true,
			}, nil
		}
		return reconciler.ExternalObservation{}, err
	}

	input, err := inputContent(ctx, e.store, cr)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			e.log.Info("Input spec not found", "location", inputLocation(cr).String())
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
		e.log.Info("PreparedSpec digest changed", "status", cr.Status.Digest, "spec", dig)
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
	cr, ok := mg.(*preparedspecv1alpha1.PreparedSpec)
	if !ok {
		return errors.New(errNotPreparedSpec)
	}

	if !meta.IsActionAllowed(cr, meta.ActionCreate) {
		e.log.Info("External resource should not be created by provider, skip creating.")
		return nil
	}

	e.log.Info("Creating PreparedSpec", "input", cr.Spec.InputSpecLocation.Bucket+"/"+cr.Spec.InputSpecLocation.Key)

	if err := e.publish(ctx, cr, lifecycle.Create); err != nil {
		return err
	}

	e.log.Info("Created PreparedSpec", "outputSpecKey", cr.Status.OutputSpecKey)
	e.rec.Eventf(cr, corev1.EventTypeNormal, "PreparedSpecCreating",
		"PreparedSpec '%s/%s' published to '%s'", cr.Namespace, cr.Name, cr.Status.OutputSpecKey)
	return nil
}

func (e *external) Update(ctx context.Context, mg resource.Managed) error {
	cr, ok := mg.(*preparedspecv1alpha1.PreparedSpec)
	if !ok {
		return errors.New(errNotPreparedSpec)
	}

	if !meta.IsActionAllowed(cr, meta.ActionUpdate) {
		e.log.Info("External resource should not be updated by provider, skip updating.")
		return nil
	}

	e.log.Info("Updating PreparedSpec", "outputSpecKey", cr.Status.OutputSpecKey)

	if err := e.publish(ctx, cr, lifecycle.Update); err != nil {
		return err
	}

	e.log.Info("Updated PreparedSpec", "outputSpecKey", cr.Status.OutputSpecKey)
	e.rec.Eventf(cr, corev1.EventTypeNormal, "PreparedSpecUpdating",
		"PreparedSpec '%s/%s' published to '%s'", cr.Namespace, cr.Name, cr.Status.OutputSpecKey)
	return nil
}

func (e *external) Delete(ctx context.Context, mg resource.Managed) error {
	cr, ok := mg.(*preparedspecv1alpha1.PreparedSpec)
	if !ok {
		return errors.New(errNotPreparedSpec)
	}

	if !meta.IsActionAllowed(cr, meta.ActionDelete) {
		e.log.Info("External resource should not be deleted by provider, skip deleting.")
		return nil
	}

	props, err := toProperties(cr)
	if err != nil {
		return err
	}

	res := lifecycle.Invoke[publish.Properties](ctx, publish.Name, e.handler, lifecycle.Request[publish.Properties]{
		RequestType:        lifecycle.Delete,
		PhysicalResourceID: cr.Status.OutputSpecKey,
		ResourceProperties: props,
	}, e.log)
	if res.Status == lifecycle.StatusFailed {
		return errors.New(res.Reason)
	}

	e.log.Info("Deleted PreparedSpec", "outputSpecKey", res.PhysicalResourceID)
	e.rec.Eventf(cr, corev1.EventTypeNormal, "PreparedSpecDeleted",
		"PreparedSpec '%s/%s' deleted", cr.Namespace, cr.Name)
	return nil
}

func (e *external) publish(ctx context.Context, cr *preparedspecv1alpha1.PreparedSpec, rt lifecycle.RequestType) error {
	props, err := toProperties(cr)
	if err != nil {
		return err
	}
	input, err := inputContent(ctx, e.store, cr)
	if err != nil {
		return e.failed(ctx, cr, err.Error())
	}
	dig, err := digest(cr, input)
	if err != nil {
		return err
	}

	res := lifecycle.Invoke[publish.Properties](ctx, publish.Name, e.handler, lifecycle.Request[publish.Properties]{
		RequestType:        rt,
		PhysicalResourceID: cr.Status.OutputSpecKey,
		ResourceProperties: props,
	}, e.log)

	if res.Status == lifecycle.StatusFailed {
		return e.failed(ctx, cr, res.Reason)
	}

	cr.SetConditions(rtv1.Creating())
	cr.Status.OutputSpecKey = res.PhysicalResourceID
	cr.Status.Digest = dig

	if err := e.kube.Status().Update(ctx, cr); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

func (e *external) failed(ctx context.Context, cr *preparedspecv1alpha1.PreparedSpec, reason string) error {
	cr.SetConditions(rtv1.Unavailable().WithMessage(reason))
	if err := e.kube.Status().Update(ctx, cr); err != nil {
		e.log.Debug("Updating status", "error", err.Error())
	}
	e.rec.Eventf(cr, corev1.EventTypeWarning, "PreparedSpecFailed",
		"PreparedSpec '%s/%s' failed: %s", cr.Namespace, cr.Name, reason)
	return errors.New(reason)
}
