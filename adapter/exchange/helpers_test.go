package exchange

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

const (
	testPublicKey = "test-public-key"
	testSecretKey = "test-secret-key"
)

// recorder keeps every request the fake exchange receives.
type recorder struct {
	mut      sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	Url     string
	Body    string
	Headers http.Header
}

func (r *recorder) add(req recordedRequest) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recorder) all() []recordedRequest {
	r.mut.Lock()
	defer r.mut.Unlock()
	return append([]recordedRequest{}, r.requests...)
}

func (r *recorder) last() recordedRequest {
	all := r.all()
	if len(all) == 0 {
		return recordedRequest{}
	}
	return all[len(all)-1]
}

func newFakeExchange(t *testing.T, handler func(req recordedRequest) (int, string)) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		req := recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.RawQuery,
			Url:     srv.URL + r.URL.RequestURI(),
			Body:    string(body),
			Headers: r.Header.Clone(),
		}
		rec.add(req)

		status, resp := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func testOptions(baseUrl string, withKeys bool) (Options, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opts := Options{
		BaseUrl: baseUrl,
		Logger:  logger,
	}
	if withKeys {
		opts.PublicKey = testPublicKey
		opts.SecretKey = testSecretKey
	}

	return opts, hook
}

func assertNoSecretsLogged(t *testing.T, hook *test.Hook) {
	t.Helper()

	for _, entry := range hook.AllEntries() {
		line, err := entry.String()
		assert.NoError(t, err)
		assert.NotContains(t, line, testSecretKey)
		assert.NotContains(t, line, testPublicKey)
	}
}
