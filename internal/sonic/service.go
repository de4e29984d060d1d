package sonic

import "context"

// Service handles one kind of request/response pair over a sonic
// connection. A node implements one Service per RPC it exposes: the query
// coordinator's "score this segment" call, or the indexer's "adopt this
// batch" call.
type Service[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// ServiceFunc adapts a plain function to Service, mirroring the
// http.HandlerFunc pattern for handlers with no state of their own.
type ServiceFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f ServiceFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// envelope is the wire shape for both directions: a request envelope
// carries Body and no Err; a response envelope carries either Body or Err,
// never both.
type envelope[T any] struct {
	Body T
	Err  string
}
