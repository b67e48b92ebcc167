package supabase

import (
	"context"
	"fmt"
	"net/http"
)

// RPC calls a remote procedure with named params and decodes its result.
// Procedures are expected to be idempotent, so transient failures are retried.
func (c *Client) RPC(ctx context.Context, fn string, params any, out any) error {
	r := c.newRequest(http.MethodPost, "/rest/v1/rpc/"+fn)
	if params == nil {
		params = struct{}{}
	}
	if err := r.json(params); err != nil {
		return err
	}
	r.retryable = true
	resp, err := c.do(ctx, r)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", fn, err)
	}
	return decode(resp, out)
}
