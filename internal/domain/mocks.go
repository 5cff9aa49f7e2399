package domain

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
)

var ErrNotServed = errors.New("mock: document not served")

type MockPost struct {
	URL  string
	Form url.Values
	Body []byte
}

// MockFetcher serves canned documents per URL. Serving several bodies for one
// URL returns them in order and then keeps returning the last one.
type MockFetcher struct {
	mu     sync.Mutex
	docs   map[string][][]byte
	Errs   map[string]error
	Status map[string]int
	Reply  map[string][]byte
	OnPost func(p MockPost)

	Gets  []string
	Posts []MockPost
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		docs:   make(map[string][][]byte),
		Errs:   make(map[string]error),
		Status: make(map[string]int),
		Reply:  make(map[string][]byte),
	}
}

func (m *MockFetcher) Serve(url string, bodies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, []byte(b))
	}
	m.docs[url] = out
}

func (m *MockFetcher) Get(_ context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets = append(m.Gets, url)
	if err := m.Errs[url]; err != nil {
		return nil, err
	}
	bodies, ok := m.docs[url]
	if !ok || len(bodies) == 0 {
		return nil, ErrNotServed
	}
	b := bodies[0]
	if len(bodies) > 1 {
		m.docs[url] = bodies[1:]
	}
	return b, nil
}

func (m *MockFetcher) PostForm(ctx context.Context, url string, form url.Values) (Response, error) {
	return m.post(MockPost{URL: url, Form: form})
}

func (m *MockFetcher) PostXML(ctx context.Context, url string, body []byte) (Response, error) {
	return m.post(MockPost{URL: url, Body: body})
}

func (m *MockFetcher) PostsTo(url string) []MockPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockPost
	for _, p := range m.Posts {
		if p.URL == url {
			out = append(out, p)
		}
	}
	return out
}

func (m *MockFetcher) post(p MockPost) (Response, error) {
	m.mu.Lock()
	m.Posts = append(m.Posts, p)
	err := m.Errs[p.URL]
	status, ok := m.Status[p.URL]
	if !ok {
		status = http.StatusOK
	}
	reply := m.Reply[p.URL]
	hook := m.OnPost
	m.mu.Unlock()

	if err != nil {
		return Response{}, err
	}
	if hook != nil {
		hook(p)
	}
	return Response{StatusCode: status, Body: reply}, nil
}

type MockNotifier struct {
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(ctx context.Context, title, body, url string) error {
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockCache struct {
	Snapshots []Snapshot
	Err       error
}

func (c *MockCache) Write(ctx context.Context, s Snapshot) error {
	if c.Err != nil {
		return c.Err
	}
	c.Snapshots = append(c.Snapshots, s)
	return nil
}
