package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/formbridge"
	"github.com/xraph/formbridge/form"
)

// Update is the update-record pipeline: resolve page → optional Edit action
// → write fields → optional Save action. Only the resolve and write steps
// are fatal; Edit and Save failures are logged and tolerated because the
// record may already be editable and saving may be implicit in the writer.
//
// Like Create, it holds non-owning references to shared collaborators and
// is safe for concurrent use.
type Update struct {
	resolver form.Resolver
	actions  form.ActionInvoker
	writer   form.FieldWriter
	config   formbridge.Config
	logger   *slog.Logger
}

// NewUpdate builds an update pipeline over the shared collaborators.
// config supplies the flag defaults and the write success scope.
func NewUpdate(resolver form.Resolver, actions form.ActionInvoker, writer form.FieldWriter, config formbridge.Config, logger *slog.Logger) *Update {
	return &Update{resolver: resolver, actions: actions, writer: writer, config: config, logger: logger}
}

// Execute runs the pipeline. Steps are strictly sequential; each is awaited
// before the next begins.
func (p *Update) Execute(ctx context.Context, req UpdateRequest) (res *UpdateResult, err error) {
	if vErr := req.Validate(); vErr != nil {
		return nil, vErr
	}

	autoEdit := flag(req.AutoEdit, p.config.AutoEdit)
	save := flag(req.Save, p.config.Save)
	stopOnError := flag(req.StopOnError, p.config.StopOnError)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("update pipeline panicked",
				slog.String("page_id", req.PageID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			res = nil
			err = &StepError{
				Op:     "update_record",
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

	// Step 2: switch to edit mode. Non-fatal — the record may already be
	// editable.
	if autoEdit {
		if _, editErr := p.actions.Invoke(ctx, form.ActionRequest{
			PageID: req.PageID,
			Action: form.ActionEdit,
		}); editErr != nil {
			p.logger.Warn("edit action failed, continuing",
				slog.String("page_id", req.PageID),
				slog.String("error", editErr.Error()),
			)
		}
	}

	// Step 3: write the fields. Fatal.
	w, err := p.writer.Write(ctx, form.WriteRequest{
		PageContext:         pc,
		Fields:              req.Fields,
		StopOnError:         stopOnError,
		ImmediateValidation: true,
	})
	if err != nil {
		return nil, err
	}

	success := w.Success
	if stopOnError && p.config.WriteSuccessScope == formbridge.ScopeRequested {
		// Strict reading: success covers the whole requested set, not just
		// the attempted subset.
		success = w.Success && len(w.FailedFields) == 0 && len(w.UpdatedFields) == len(req.Fields)
	}

	// Step 4: save. Non-fatal — saving may be implicit in the writer; the
	// success computed in step 3 stands either way.
	saved := false
	if save && w.Success {
		if _, saveErr := p.actions.Invoke(ctx, form.ActionRequest{
			PageID: req.PageID,
			Action: form.ActionSave,
		}); saveErr != nil {
			p.logger.Warn("save action failed, record left unsaved",
				slog.String("page_id", req.PageID),
				slog.String("error", saveErr.Error()),
			)
		} else {
			saved = true
		}
	}

	msg := w.Message
	if msg == "" {
		msg = fmt.Sprintf("record updated on page %s: %d field(s) set, %d failed",
			req.PageID, len(w.UpdatedFields), len(w.FailedFields))
		if !saved {
			msg += " (not saved)"
		}
	}

	return &UpdateResult{
		Success:       success,
		PageContext:   pc,
		PageID:        req.PageID,
		Record:        w.Record,
		Saved:         saved,
		UpdatedFields: w.UpdatedFields,
		FailedFields:  w.FailedFields,
		Message:       msg,
	}, nil
}
