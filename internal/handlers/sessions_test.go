package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/services"
)

func startSession(t *testing.T, env *testEnv, auth map[string]string, body map[string]any) map[string]any {
	t.Helper()
	resp, out := env.do(t, http.MethodPost, "/api/v1/sessions/", body, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return out
}

func sessionID(t *testing.T, body map[string]any) string {
	t.Helper()
	id, _ := body["session"].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	userID := "user-1"
	auth := bearer(env.token(t, userID, RoleUser))

	body := startSession(t, env, auth, map[string]any{"topic": "React", "count": 2})
	id := sessionID(t, body)
	sess := body["session"].(map[string]any)
	assert.Equal(t, "react", sess["topic"])
	assert.Equal(t, "mid", sess["difficulty"])
	assert.Len(t, sess["questions"], 2)
	assert.Contains(t, body["message"], "state and props")

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/answer", map[string]string{
		"answer": "Props are immutable values passed from the parent component while state is mutable data a component will manage itself, " +
			"so the parent owns what it passes down and the child decides how to react to its own internal changes over time in the app.",
	}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "Hooks")
	assert.Equal(t, false, body["session"].(map[string]any)["completed"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/answer", map[string]string{
		"answer": "Hooks let functional components use state and lifecycle logic without a class.",
	}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["session"].(map[string]any)["completed"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/answer", map[string]string{"answer": "one more"}, auth)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/finish", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	feedback := body["feedback"].(map[string]any)
	assert.Len(t, feedback["questionFeedback"], 2)
	assert.GreaterOrEqual(t, feedback["score"].(float64), float64(50))

	require.Len(t, env.interviews.items, 1)
	saved := env.interviews.items[0]
	assert.Equal(t, body["id"], saved.ID.Hex())
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "react", saved.Topic)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionBelongsToItsOwner(t *testing.T) {
	env := newTestEnv(t)
	body := startSession(t, env, bearer(env.token(t, "owner", RoleUser)), map[string]any{"topic": "backend"})
	id := sessionID(t, body)

	intruder := bearer(env.token(t, "intruder", RoleUser))
	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/sessions/" + id, nil},
		{http.MethodPost, "/api/v1/sessions/" + id + "/answer", map[string]string{"answer": "hi"}},
		{http.MethodPost, "/api/v1/sessions/" + id + "/finish", nil},
		{http.MethodGet, "/api/v1/sessions/" + id + "/audio", nil},
	} {
		resp, _ := env.do(t, tc.method, tc.path, tc.body, intruder)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
	}
	assert.Empty(t, env.interviews.items)
}

func TestSessionRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u", RoleUser))

	resp, _ := env.do(t, http.MethodPost, "/api/v1/sessions/", map[string]any{"topic": "react", "count": 50}, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/", map[string]any{"topic": "react", "difficulty": "guru"}, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	id := sessionID(t, startSession(t, env, auth, map[string]any{"topic": "react"}))
	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/answer", map[string]string{"answer": "   "}, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/", map[string]any{"topic": "react"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func multipartStart(t *testing.T, env *testEnv, auth map[string]string, filename string, data []byte) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("topic", "resume"))
	require.NoError(t, w.WriteField("count", "2"))
	part, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range auth {
		req.Header.Set(k, v)
	}
	return env.send(t, req)
}

func TestStartSessionWithResume(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u", RoleUser))

	resp, body := multipartStart(t, env, auth, "cv.txt", []byte("Jane Doe\nBackend engineer. Go, MongoDB, Redis."))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := body["session"].(map[string]any)
	assert.Equal(t, "resume", sess["topic"])
	assert.Equal(t, "cv.txt", sess["resumeName"])
	assert.NotContains(t, sess, "resumeText")
	assert.Len(t, sess["questions"], 2)

	resp, _ = multipartStart(t, env, auth, "photo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, _ = multipartStart(t, env, auth, "huge.txt", []byte(strings.Repeat("a", 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSessionAudio(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(env.token(t, "u", RoleUser))
	body := startSession(t, env, auth, map[string]any{"topic": "react"})
	id := sessionID(t, body)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/audio", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))
	audio, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "audio:"+body["message"].(string), string(audio))
}

// busySessions reports every update as colliding with another request.
type busySessions struct {
	SessionService
}

func (busySessions) Answer(context.Context, string, string, string) (*models.Session, string, error) {
	return nil, "", services.ErrSessionBusy
}

func (busySessions) Finish(context.Context, string, string) (*models.Interview, error) {
	return nil, services.ErrSessionBusy
}

func TestSessionBusyIsConflict(t *testing.T) {
	env := newTestEnv(t, func(_ *config.Config, d *Deps) { d.Sessions = busySessions{SessionService: d.Sessions} })
	auth := bearer(env.token(t, "u", RoleUser))

	resp, body := env.do(t, http.MethodPost, "/api/v1/sessions/abc/answer", map[string]string{"answer": "hello"}, auth)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Interview session is busy, try again", body["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/sessions/abc/finish", nil, auth)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

type failingVoice struct{ err error }

func (f failingVoice) Synthesize(context.Context, string) ([]byte, string, error) {
	return nil, "", f.err
}

func TestSessionAudioUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		voice Synthesizer
		want  int
	}{
		{"no voice configured", nil, http.StatusServiceUnavailable},
		{"no engine available", failingVoice{services.ErrVoiceUnavailable}, http.StatusServiceUnavailable},
		{"engine failed", failingVoice{errors.New("boom")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(_ *config.Config, d *Deps) { d.Voice = tt.voice })
			auth := bearer(env.token(t, "u", RoleUser))
			id := sessionID(t, startSession(t, env, auth, map[string]any{"topic": "react"}))

			resp, _ := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/audio", nil, auth)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])

	env.app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })
	resp, body = env.do(t, http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", body["error"])
}
