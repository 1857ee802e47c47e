package plamo_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidhbaek/plamo-translate/plamo"
)

// reply is one canned response from fakeServer.
type reply struct {
	status int
	body   string
}

func textReply(text string) reply {
	b, _ := json.Marshal(map[string]any{
		"id":      "cmpl-1",
		"object":  "text_completion",
		"choices": []map[string]any{{"index": 0, "text": text, "finish_reason": "stop"}},
	})
	return reply{status: http.StatusOK, body: string(b)}
}

// fakeServer serves canned replies in order and records every request body.
// Once the replies run out it keeps serving the last one.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	replies  []reply
	requests []map[string]any
	paths    []string
}

func newFakeServer(t *testing.T, replies ...reply) *fakeServer {
	t.Helper()

	fs := &fakeServer{replies: replies}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)

	return fs
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	decoded := map[string]any{}
	_ = json.Unmarshal(body, &decoded)

	fs.mu.Lock()
	fs.requests = append(fs.requests, decoded)
	fs.paths = append(fs.paths, r.Method+" "+r.URL.Path)
	idx := min(len(fs.requests), len(fs.replies)) - 1
	rep := reply{status: http.StatusOK, body: `{"choices":[{"text":""}]}`}
	if idx >= 0 {
		rep = fs.replies[idx]
	}
	fs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func (fs *fakeServer) calls() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func (fs *fakeServer) requestPaths() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string{}, fs.paths...)
}

func (fs *fakeServer) request(i int) map[string]any {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.requests[i]
}

func (fs *fakeServer) client(t *testing.T, opts ...plamo.Option) *plamo.Client {
	t.Helper()

	c, err := plamo.NewClient(plamo.NewConfig(fs.URL+"/v1/", "test-model", 5*time.Second), opts...)
	require.NoError(t, err)

	return c
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	retries  int
}

func (r *fakeRecorder) ObserveCompletion(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *fakeRecorder) IncRetry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries++
}
