package hudson_http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/davarch/hudson-remote/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_BasicAuthAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "u" || pass != "p" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"jobs":[]}`)
	}))
	defer srv.Close()

	c := New(time.Second, WithBasicAuth("u", "p"))
	b, err := c.Get(context.Background(), srv.URL+"/api/json")
	require.NoError(t, err)
	assert.Equal(t, `{"jobs":[]}`, string(b))

	_, err = New(time.Second).Get(context.Background(), srv.URL+"/api/json")
	assert.ErrorContains(t, err, "401")
}

func TestGet_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "moved")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b, err := New(time.Second).Get(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "moved", string(b))
}

func TestPostForm_KeepsRedirectStatus(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		got = r.PostForm
		http.Redirect(w, r, "/job/foo/", http.StatusFound)
	}))
	defer srv.Close()

	resp, err := New(time.Second).PostForm(context.Background(), srv.URL+"/createItem",
		url.Values{"name": {"foo"}, "mode": {"copy"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, resp.OK())
	assert.Equal(t, "foo", got.Get("name"))
}

func TestPostXML_ContentTypeAndFailure(t *testing.T) {
	var body string
	var ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body, ctype = string(b), r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))
	defer srv.Close()

	resp, err := New(time.Second).PostXML(context.Background(), srv.URL+"/job/foo/config.xml", []byte("<project/>"))
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, "boom", string(resp.Body))
	assert.Equal(t, "<project/>", body)
	assert.Equal(t, "application/xml", ctype)
}

func TestCallCounter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := metrics.New()
	c := New(time.Second, WithCallCounter(m.OutboundCalls))
	_, _ = c.Get(context.Background(), srv.URL)
	_, _ = c.Get(context.Background(), srv.URL)
	_, _ = c.PostForm(context.Background(), srv.URL, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboundCalls.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboundCalls.WithLabelValues("POST", "200")))
}
