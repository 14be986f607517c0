package pipeline_test

import (
	"context"
	"sync"

	"github.com/xraph/formbridge/form"
	"github.com/xraph/formbridge/id"
)

// callLog records collaborator invocations in order across fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeResolver struct {
	log    *callLog
	result *form.ResolveResult
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, _ form.ResolveRequest) (*form.ResolveResult, error) {
	if f.log != nil {
		f.log.add("resolve")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeInvoker struct {
	log *callLog
	// errs maps an action to the error its invocation returns.
	errs map[form.Action]error
	// requests records every ActionRequest seen.
	mu       sync.Mutex
	requests []form.ActionRequest
}

func (f *fakeInvoker) Invoke(_ context.Context, req form.ActionRequest) (*form.ActionResult, error) {
	if f.log != nil {
		f.log.add("action:" + string(req.Action))
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if err := f.errs[req.Action]; err != nil {
		return nil, err
	}
	return &form.ActionResult{Executed: true}, nil
}

type fakeWriter struct {
	log    *callLog
	result *form.WriteResult
	err    error
	panics bool

	mu   sync.Mutex
	last form.WriteRequest
}

func (f *fakeWriter) Write(_ context.Context, req form.WriteRequest) (*form.WriteResult, error) {
	if f.log != nil {
		f.log.add("write")
	}
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.panics {
		panic("writer exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeWriter) lastRequest() form.WriteRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func testPageContext(pageID string) id.PageContext {
	return id.NewPageContext(id.NewSessionID(), pageID)
}
