package domain

import (
	"context"
	"net/url"
)

// Response is what a POST against the server produced. Only the status class
// carries meaning; the body is kept for diagnostics.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a success or redirect-class status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Fetcher moves raw documents between the client and the CI server.
// Get fails on transport errors and on any non-2xx status.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	PostForm(ctx context.Context, url string, form url.Values) (Response, error)
	PostXML(ctx context.Context, url string, body []byte) (Response, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

type StatusCache interface {
	Write(ctx context.Context, s Snapshot) error
}
