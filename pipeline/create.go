package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/formbridge/form"
)

// Create is the create-record pipeline: resolve page → New action → write
// fields. Every step is fatal; the first failure aborts the chain and its
// error is returned unchanged.
//
// The pipeline holds non-owning references to collaborator instances shared
// across calls; it carries no per-call state and is safe for concurrent use.
type Create struct {
	resolver form.Resolver
	actions  form.ActionInvoker
	writer   form.FieldWriter
	logger   *slog.Logger
}

// NewCreate builds a create pipeline over the shared collaborators.
func NewCreate(resolver form.Resolver, actions form.ActionInvoker, writer form.FieldWriter, logger *slog.Logger) *Create {
	return &Create{resolver: resolver, actions: actions, writer: writer, logger: logger}
}

// Execute runs the pipeline. Steps are strictly sequential; each is awaited
// before the next begins.
func (p *Create) Execute(ctx context.Context, req CreateRequest) (res *CreateResult, err error) {
	if vErr := req.Validate(); vErr != nil {
		return nil, vErr
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("create pipeline panicked",
				slog.String("page_id", req.PageID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			res = nil
			err = &StepError{
				Op:     "create_record",
				PageID: req.PageID,
				Fields: sortedNames(req.Fields),
				Err:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	// Step 1: resolve the page and its session.
	resolved, err := p.resolver.Resolve(ctx, form.ResolveRequest{PageID: req.PageID})
	if err != nil {
		return nil, err
	}
	pc := resolved.PageContext

	// Step 2: materialize a blank record.
	if _, err = p.actions.Invoke(ctx, form.ActionRequest{
		PageID:    req.PageID,
		SessionID: pc.Session,
		Action:    form.ActionNew,
	}); err != nil {
		return nil, err
	}

	// Step 3: populate and persist the new record.
	w, err := p.writer.Write(ctx, form.WriteRequest{
		PageID:    req.PageID,
		SessionID: pc.Session,
		Fields:    req.Fields,
	})
	if err != nil {
		return nil, err
	}

	setFields := w.UpdatedFields
	if len(setFields) == 0 {
		// Writers that don't itemize report the full requested set.
		setFields = sortedNames(req.Fields)
	}

	msg := w.Message
	if msg == "" {
		msg = fmt.Sprintf("record created on page %s: %d field(s) set", req.PageID, len(setFields))
	}

	return &CreateResult{
		Success:      w.Success,
		PageContext:  pc,
		PageID:       req.PageID,
		Record:       w.Record,
		Saved:        w.Saved,
		SetFields:    setFields,
		FailedFields: w.FailedFields,
		Message:      msg,
	}, nil
}
