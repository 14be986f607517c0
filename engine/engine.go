// Package engine wires the FormBridge subsystems together. It builds the
// session and workflow registries over the bridge's store, constructs the
// two record pipelines around the shared form collaborators, and exposes
// the record operations behind a middleware chain.
//
// This package exists to break the import cycle: the root formbridge
// package defines Config and the sentinel errors (imported by session,
// workflow, pipeline) and so cannot import those packages back. The engine
// package sits above all subsystem packages and below the application layer.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/form"
	"github.com/xraph/formbridge/id"
	mw "github.com/xraph/formbridge/middleware"
	"github.com/xraph/formbridge/pipeline"
	"github.com/xraph/formbridge/session"
	"github.com/xraph/formbridge/workflow"
)

// Engine exposes the record operations over a wired set of registries,
// pipelines, and middleware. Use Build() to create one from a Bridge.
type Engine struct {
	b        *formbridge.Bridge
	logger   *slog.Logger
	sessions *session.Registry
	flows    *workflow.Registry

	resolver form.Resolver
	actions  form.ActionInvoker
	writer   form.FieldWriter

	create *pipeline.Create
	update *pipeline.Update

	mws   []mw.Middleware
	chain mw.Middleware

	// OpenTelemetry providers (optional; nil means use global).
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the shared page resolver collaborator.
func WithResolver(r form.Resolver) Option {
	return func(eng *Engine) { eng.resolver = r }
}

// WithActionInvoker sets the shared action invoker collaborator.
func WithActionInvoker(a form.ActionInvoker) Option {
	return func(eng *Engine) { eng.actions = a }
}

// WithFieldWriter sets the shared field writer collaborator.
func WithFieldWriter(w form.FieldWriter) Option {
	return func(eng *Engine) { eng.writer = w }
}

// WithMiddleware adds middleware to the engine's chain, after the defaults.
func WithMiddleware(m mw.Middleware) Option {
	return func(eng *Engine) { eng.mws = append(eng.mws, m) }
}

// WithTracerProvider sets a custom OTel TracerProvider for the engine.
// If not set, the global otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(eng *Engine) { eng.tracerProvider = tp }
}

// WithMeterProvider sets a custom OTel MeterProvider for the engine.
// If not set, the global otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(eng *Engine) { eng.meterProvider = mp }
}

// Build creates an Engine from an existing Bridge. The Bridge's store must
// implement both session.Store and workflow.Store, and all three form
// collaborators must be provided.
//
// The registries are constructed here exactly once and injected into the
// pipelines; there is no hidden global state.
func Build(b *formbridge.Bridge, opts ...Option) (*Engine, error) {
	logger := b.Logger()
	store := b.Store()

	if store == nil {
		return nil, formbridge.ErrNoStore
	}

	ss, ok := store.(session.Store)
	if !ok {
		return nil, fmt.Errorf("formbridge: store does not implement session.Store")
	}

	ws, ok := store.(workflow.Store)
	if !ok {
		return nil, fmt.Errorf("formbridge: store does not implement workflow.Store")
	}

	eng := &Engine{
		b:      b,
		logger: logger,
	}

	for _, opt := range opts {
		opt(eng)
	}

	switch {
	case eng.resolver == nil:
		return nil, formbridge.ErrNoResolver
	case eng.actions == nil:
		return nil, formbridge.ErrNoActionInvoker
	case eng.writer == nil:
		return nil, formbridge.ErrNoFieldWriter
	}

	eng.sessions = session.NewRegistry(ss)
	eng.flows = workflow.NewRegistry(ws, eng.sessions)

	eng.create = pipeline.NewCreate(eng.resolver, eng.actions, eng.writer, logger)
	eng.update = pipeline.NewUpdate(eng.resolver, eng.actions, eng.writer, b.Config(), logger)

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if eng.tracerProvider != nil {
		tracingMw = mw.TracingWithTracer(eng.tracerProvider.Tracer("github.com/xraph/formbridge"))
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware (custom provider or global).
	var metricsMw mw.Middleware
	if eng.meterProvider != nil {
		metricsMw = mw.MetricsWithMeter(eng.meterProvider.Meter("github.com/xraph/formbridge"))
	} else {
		metricsMw = mw.Metrics()
	}

	// Default middleware stack: recover → tracing → metrics → logging.
	defaultMws := []mw.Middleware{
		mw.Recover(logger),
		tracingMw,
		metricsMw,
		mw.Logging(logger),
	}
	allMws := make([]mw.Middleware, 0, len(defaultMws)+len(eng.mws))
	allMws = append(allMws, defaultMws...)
	allMws = append(allMws, eng.mws...)
	eng.chain = mw.Chain(allMws...)

	return eng, nil
}

// Sessions returns the session state registry.
func (eng *Engine) Sessions() *session.Registry { return eng.sessions }

// Workflows returns the workflow state registry.
func (eng *Engine) Workflows() *workflow.Registry { return eng.flows }

// Bridge returns the underlying Bridge.
func (eng *Engine) Bridge() *formbridge.Bridge { return eng.b }

// ──────────────────────────────────────────────────
// Call options — per-operation workflow tracking
// ──────────────────────────────────────────────────

// CallOption configures a single record operation call.
type CallOption func(*callOpts)

type callOpts struct {
	workflowID id.WorkflowID
}

// WithWorkflow links the call to a tracked workflow: the engine appends a
// history step record for the call outcome and moves a freshly created
// workflow to in-progress. Tracking is best-effort — a failed append never
// fails the record operation.
func WithWorkflow(workflowID id.WorkflowID) CallOption {
	return func(o *callOpts) { o.workflowID = workflowID }
}

// ──────────────────────────────────────────────────
// Record operations
// ──────────────────────────────────────────────────

// CreateRecord runs the create-record pipeline.
func (eng *Engine) CreateRecord(ctx context.Context, req pipeline.CreateRequest, opts ...CallOption) (*pipeline.CreateResult, error) {
	var co callOpts
	for _, opt := range opts {
		opt(&co)
	}

	call := &mw.Call{Op: "create_record", PageID: req.PageID, WorkflowID: co.workflowID.String()}

	var res *pipeline.CreateResult
	err := eng.chain(ctx, call, func(ctx context.Context) error {
		var execErr error
		res, execErr = eng.create.Execute(ctx, req)
		return execErr
	})

	if !co.workflowID.IsNil() {
		detail := fmt.Sprintf("create_record page %s", req.PageID)
		eng.trackStep(ctx, co.workflowID, "create_record", err == nil && res != nil && res.Success, detail, err)
	}

	return res, err
}

// UpdateRecord runs the update-record pipeline.
func (eng *Engine) UpdateRecord(ctx context.Context, req pipeline.UpdateRequest, opts ...CallOption) (*pipeline.UpdateResult, error) {
	var co callOpts
	for _, opt := range opts {
		opt(&co)
	}

	call := &mw.Call{Op: "update_record", PageID: req.PageID, WorkflowID: co.workflowID.String()}

	var res *pipeline.UpdateResult
	err := eng.chain(ctx, call, func(ctx context.Context) error {
		var execErr error
		res, execErr = eng.update.Execute(ctx, req)
		return execErr
	})

	if !co.workflowID.IsNil() {
		detail := fmt.Sprintf("update_record page %s", req.PageID)
		eng.trackStep(ctx, co.workflowID, "update_record", err == nil && res != nil && res.Success, detail, err)
	}

	return res, err
}

// trackStep appends a history record for one tracked call and bumps a
// freshly created workflow to in-progress. Best-effort: failures are logged
// and swallowed.
func (eng *Engine) trackStep(ctx context.Context, workflowID id.WorkflowID, step string, success bool, detail string, callErr error) {
	if callErr != nil {
		detail = fmt.Sprintf("%s: %s", detail, callErr.Error())
	}

	if _, err := eng.flows.AppendHistory(ctx, workflowID, workflow.HistoryEntry{
		Step:    step,
		Success: success,
		Detail:  detail,
	}); err != nil {
		eng.logger.Warn("workflow history append failed",
			slog.String("workflow_id", workflowID.String()),
			slog.String("step", step),
			slog.String("error", err.Error()),
		)
		return
	}

	wf, err := eng.flows.Get(ctx, workflowID)
	if err == nil && wf.Status == workflow.StatusCreated {
		if statusErr := eng.flows.SetStatus(ctx, workflowID, workflow.StatusInProgress); statusErr != nil {
			eng.logger.Warn("workflow status update failed",
				slog.String("workflow_id", workflowID.String()),
				slog.String("error", statusErr.Error()),
			)
		}
	}
}
