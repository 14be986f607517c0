package formrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xraph/formbridge/form"
)

// Compile-time collaborator checks.
var (
	_ form.Resolver      = (*Client)(nil)
	_ form.ActionInvoker = (*Client)(nil)
	_ form.FieldWriter   = (*Client)(nil)
)

// Resolve opens or locates a page on the remote gateway and returns its
// composite page context.
func (c *Client) Resolve(ctx context.Context, req form.ResolveRequest) (*form.ResolveResult, error) {
	resp, err := c.request(ctx, MethodPageOpen, req)
	if err != nil {
		return nil, err
	}

	var result form.ResolveResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("formrpc: unmarshal resolve response: %w", err)
	}
	return &result, nil
}

// Invoke executes a named action (New/Edit/Save) on an open page.
func (c *Client) Invoke(ctx context.Context, req form.ActionRequest) (*form.ActionResult, error) {
	resp, err := c.request(ctx, MethodActionInvoke, req)
	if err != nil {
		return nil, err
	}

	var result form.ActionResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("formrpc: unmarshal action response: %w", err)
	}
	return &result, nil
}

// Write applies a field mapping to the open record on the remote gateway.
func (c *Client) Write(ctx context.Context, req form.WriteRequest) (*form.WriteResult, error) {
	resp, err := c.request(ctx, MethodFieldsWrite, req)
	if err != nil {
		return nil, err
	}

	var result form.WriteResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("formrpc: unmarshal write response: %w", err)
	}
	return &result, nil
}
