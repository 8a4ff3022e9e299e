package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathmentor/internal/auth"
	"github.com/abhisek/mathmentor/internal/docstore"
	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/session"
)

type fixedGenerator struct {
	mu  sync.Mutex
	n   int
	err error
}

func (g *fixedGenerator) Generate(_ context.Context, req problemgen.Request) (*problemgen.Problem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.n++
	return &problemgen.Problem{
		ID:         fmt.Sprintf("prob-%d", g.n),
		Statement:  "What is 9 + 10?",
		GradeLevel: req.GradeLevel,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Answer:     "19",
		CreatedAt:  time.Now(),
	}, nil
}

type outbox struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, msg)
	return nil
}

func (g *fixedGenerator) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (o *outbox) fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

type testEnv struct {
	srv       *httptest.Server
	gen       *fixedGenerator
	mail      *outbox
	practices *session.Manager
}

func newTestEnv(t *testing.T, fetcher hints.Fetcher) *testEnv {
	t.Helper()

	docs := docstore.NewMemoryStore()
	env := &testEnv{gen: &fixedGenerator{}, mail: &outbox{}}
	if fetcher == nil {
		fetcher = hints.FetcherFunc(func(context.Context, hints.HintRequest) ([]string, error) {
			return []string{"Start from 9.", "Count up 10.", "9 + 10 = 19"}, nil
		})
	}

	env.practices = session.NewManager(session.Config{
		Generator: env.gen,
		Fetcher:   fetcher,
		Docs:      docs,
		Mailer:    env.mail,
	})
	s := New(Deps{
		Auth:      auth.NewService(docs, auth.NewMemoryRevocationStore(), auth.Config{Secret: []byte("test")}),
		Practices: env.practices,
		Docs:      docs,
	})
	env.srv = httptest.NewServer(s.Handler())
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(t.Context(), method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *testEnv) signUp(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "parent@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["token"].(string)
}

var basicSelection = map[string]string{
	"gradeLevel": "3rd Grade",
	"topic":      "Addition",
	"difficulty": "Basic",
	"studentId":  "kid-1",
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "bar", got["foo"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: please select a topic", problemgen.ErrInvalidSelection), http.StatusBadRequest},
		{session.ErrEmptyAnswer, http.StatusBadRequest},
		{session.ErrAlreadyAnswered, http.StatusConflict},
		{session.ErrNoProblem, http.StatusConflict},
		{auth.ErrEmailTaken, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("send summary: %w", mailer.ErrNotConfigured), http.StatusServiceUnavailable},
		{docstore.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, _ := statusFor(tt.err)
		assert.Equal(t, tt.want, got, "error %v", tt.err)
	}
}

func TestHealthAndCatalog(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.srv.Client().Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/catalog", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["gradeLevels"], 13)
	assert.Len(t, body["difficulties"], 3)
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	resp, body := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "parent@example.com", body["email"])

	resp, _ = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "parent@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "parent@example.com", "password": "nope-nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPracticeFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	resp, body := env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	problem := body["problem"].(map[string]any)
	assert.Equal(t, "What is 9 + 10?", problem["statement"])
	assert.NotContains(t, problem, "answer")

	resp, body = env.do(t, http.MethodPost, "/api/practice/hints", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["revealed"])
	assert.Equal(t, "revealing", body["state"])

	resp, body = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "  19 "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["correct"])

	resp, _ = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "19"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/students/kid-1/problems/"+problem["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "  19 ", body["submittedAnswer"])
	assert.Equal(t, true, body["isCorrect"])
	assert.EqualValues(t, 1, body["hintsRevealed"])

	resp, body = env.do(t, http.MethodGet, "/api/students/kid-1/problems", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["problems"], 1)

	resp, body = env.do(t, http.MethodPost, "/api/practice/end", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["summarySent"])
	assert.Equal(t, 1, env.mail.count())

	resp, body = env.do(t, http.MethodGet, "/api/practice", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "problem")
}

func TestPracticeErrors(t *testing.T) {
	env := newTestEnv(t, hints.FetcherFunc(func(context.Context, hints.HintRequest) ([]string, error) {
		return nil, errors.New("hint service down")
	}))
	token := env.signUp(t)

	resp, _ := env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/practice/problems", token, map[string]string{"gradeLevel": "3rd Grade"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "please select a topic")

	resp, _ = env.do(t, http.MethodPost, "/api/practice/problems", token, map[string]string{"bogus": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/practice/hints", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Failed to generate hints. Please try again.", body["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.gen.fail(errors.New("provider down"))
	resp, body = env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Failed to generate a math problem. Please try again.", body["error"])

	resp, _ = env.do(t, http.MethodGet, "/api/students/kid-1/problems/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActionsWithoutPracticeDoNotStartOne(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	for _, path := range []string{"/api/practice/hints", "/api/practice/solution", "/api/practice/answer"} {
		resp, body := env.do(t, http.MethodPost, path, token, map[string]string{"answer": "19"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode, path)
		assert.Equal(t, session.ErrNoProblem.Error(), body["error"], path)
	}
	assert.Equal(t, 0, env.practices.Len())
}

func TestErrorCause(t *testing.T) {
	cause := errors.New("provider overloaded")
	env := newTestEnv(t, hints.FetcherFunc(func(context.Context, hints.HintRequest) ([]string, error) {
		return nil, cause
	}))
	token := env.signUp(t)
	resp, _ := env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, me := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	p, ok := env.practices.Lookup(me["uid"].(string))
	require.True(t, ok)
	_, err := p.RequestHint(t.Context())
	require.ErrorIs(t, err, session.ErrHintsFailed)

	assert.Equal(t, cause, errorCause(err))
	assert.Equal(t, cause, errorCause(cause))
}

func TestSignOutSendsSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	resp, _ := env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["summarySent"])
	assert.Equal(t, 1, env.mail.count())
}

func TestSignOutSummaryFailureStillSignsOut(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	resp, _ := env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "19"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.mail.fail(errors.New("mail down"))
	resp, body := env.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["summarySent"])

	resp, _ = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndPracticeMailFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signUp(t)

	resp, _ := env.do(t, http.MethodPost, "/api/practice/problems", token, basicSelection)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/practice/answer", token, map[string]string{"answer": "19"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env.mail.fail(mailer.ErrNotConfigured)
	resp, _ = env.do(t, http.MethodPost, "/api/practice/end", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	env.mail.fail(errors.New("throttled"))
	resp, _ = env.do(t, http.MethodPost, "/api/practice/end", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	env.mail.fail(nil)
	resp, body := env.do(t, http.MethodPost, "/api/practice/end", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["summarySent"])
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/catalog", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := bearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "bearer abc")
	tok, ok := bearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	req.Header.Set("Authorization", "Basic abc")
	_, ok = bearerToken(req)
	assert.False(t, ok)
}
