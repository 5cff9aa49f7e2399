package hudson_http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davarch/hudson-remote/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Client implements domain.Fetcher over HTTP with optional basic auth.
// Redirects are followed for GET only; POST callers need to see the 3xx.
type Client struct {
	user     string
	password string
	hc       *http.Client
	calls    *prometheus.CounterVec
}

type Option func(*Client)

func WithBasicAuth(user, password string) Option {
	return func(c *Client) { c.user, c.password = user, password }
}

// WithCallCounter counts every request by method and status code.
func WithCallCounter(calls *prometheus.CounterVec) Option {
	return func(c *Client) { c.calls = calls }
}

func New(timeout time.Duration, opts ...Option) *Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		hc: &http.Client{
			Transport:     tr,
			Timeout:       timeout,
			CheckRedirect: keepPostRedirects,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func keepPostRedirects(req *http.Request, via []*http.Request) error {
	if len(via) > 0 && via[0].Method == http.MethodPost {
		return http.ErrUseLastResponse
	}
	if len(via) >= 10 {
		return fmt.Errorf("stopped after %d redirects", len(via))
	}
	return nil
}

func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hudson %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp.Body, nil
}

func (c *Client) PostForm(ctx context.Context, u string, form url.Values) (domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) PostXML(ctx context.Context, u string, body []byte) (domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return domain.Response{}, err
	}
	req.Header.Set("Content-Type", "application/xml")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (domain.Response, error) {
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.count(req.Method, "error")
		return domain.Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	c.count(req.Method, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) count(method, code string) {
	if c.calls == nil {
		return
	}
	c.calls.With(prometheus.Labels{"method": method, "code": code}).Inc()
}
