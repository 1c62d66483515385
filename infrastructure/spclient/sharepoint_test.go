package spclient

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/koltyakov/gosip"
)

// staticAuth signs every request with a fixed bearer token.
type staticAuth struct {
	siteURL string
}

func (a *staticAuth) GetAuth() (string, int64, error) { return "test-token", 0, nil }
func (a *staticAuth) SetAuth(req *http.Request, _ *gosip.SPClient) error {
	req.Header.Set("Authorization", "Bearer test-token")
	return nil
}
func (a *staticAuth) ParseConfig([]byte) error { return nil }
func (a *staticAuth) ReadConfig(string) error  { return nil }
func (a *staticAuth) GetSiteURL() string       { return a.siteURL }
func (a *staticAuth) GetStrategy() string      { return "static" }

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(r recordedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, r)
}

// matching returns the recorded requests whose path ends with suffix, ignoring case.
func (l *requestLog) matching(suffix string) []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []recordedRequest
	for _, r := range l.requests {
		if strings.HasSuffix(strings.ToLower(r.Path), strings.ToLower(suffix)) {
			out = append(out, r)
		}
	}
	return out
}

// newTestSite starts a SharePoint stand-in serving the site at sitePath. It answers
// the form digest and list entity type lookups gosip makes on its own and hands
// every other request to handle.
func newTestSite(t *testing.T, sitePath string, handle http.HandlerFunc) (*gosip.SPClient, string, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.add(recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.EqualFold(path.Base(r.URL.Path), "contextinfo"):
			_, _ = io.WriteString(w, `{"d":{"GetContextWebInformation":{"FormDigestValue":"digest-1","FormDigestTimeoutSeconds":1800}}}`)
		case r.Method == http.MethodGet && r.URL.Query().Get("$select") == "ListItemEntityTypeFullName":
			_, _ = io.WriteString(w, `{"d":{"ListItemEntityTypeFullName":"SP.Data.TestListItem"}}`)
		default:
			r.Body = io.NopCloser(bytes.NewReader(body))
			handle(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return &gosip.SPClient{AuthCnfg: &staticAuth{siteURL: srv.URL + sitePath}}, srv.URL, log
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, `{"odata.error":{"code":"-2130575338, System.ArgumentException","message":{"value":"Item does not exist."}}}`)
}
