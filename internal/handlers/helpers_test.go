package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developia-II/interview-practice-backend/internal/config"
	"github.com/developia-II/interview-practice-backend/internal/database"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/questions"
	"github.com/developia-II/interview-practice-backend/internal/services"
	"github.com/developia-II/interview-practice-backend/utils"
)

const testSecret = "test-secret"

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return database.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memUsers) List(_ context.Context, _ string, _, _ int) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		u.Password = ""
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type memInterviews struct {
	mu    sync.Mutex
	items []models.Interview
}

func (m *memInterviews) Create(_ context.Context, iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if iv.ID.IsZero() {
		iv.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, *iv)
	return nil
}

func (m *memInterviews) GetByID(_ context.Context, id primitive.ObjectID) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, iv := range m.items {
		if iv.ID == id {
			iv := iv
			return &iv, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memInterviews) ListByUser(_ context.Context, userID string) ([]models.Interview, error) {
	out := []models.Interview{}
	for _, iv := range m.sorted() {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (m *memInterviews) Find(_ context.Context, f models.InterviewFilter, _, _ int) ([]models.Interview, int64, error) {
	out := []models.Interview{}
	for _, iv := range m.sorted() {
		if f.UserID != "" && iv.UserID != f.UserID {
			continue
		}
		if f.Topic != "" && iv.Topic != f.Topic {
			continue
		}
		out = append(out, iv)
	}
	return out, int64(len(out)), nil
}

func (m *memInterviews) Recent(_ context.Context, n int64) ([]models.InterviewSummary, error) {
	out := []models.InterviewSummary{}
	for _, iv := range m.sorted() {
		if int64(len(out)) == n {
			break
		}
		out = append(out, models.InterviewSummary{ID: iv.ID, UserID: iv.UserID, Topic: iv.Topic, Score: iv.Score, CreatedAt: iv.CreatedAt})
	}
	return out, nil
}

func (m *memInterviews) CountByTopic(context.Context) ([]models.TopicCount, error) {
	counts := map[string]int64{}
	for _, iv := range m.sorted() {
		counts[iv.Topic]++
	}
	out := []models.TopicCount{}
	for topic, n := range counts {
		out = append(out, models.TopicCount{Topic: topic, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

func (m *memInterviews) ScoreStats(_ context.Context, userID string) (int64, float64, error) {
	var n, sum int64
	for _, iv := range m.sorted() {
		if userID != "" && iv.UserID != userID {
			continue
		}
		n++
		sum += int64(iv.Score)
	}
	if n == 0 {
		return 0, 0, nil
	}
	return n, float64(sum) / float64(n), nil
}

func (m *memInterviews) sorted() []models.Interview {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Interview(nil), m.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type memReports struct{ reports []models.UsageReport }

func (m *memReports) List(context.Context, int64) ([]models.UsageReport, error) {
	return m.reports, nil
}

type stubVoice struct{}

func (stubVoice) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	return []byte("audio:" + text), "audio/mpeg", nil
}

type testEnv struct {
	app        *fiber.App
	cfg        config.Config
	users      *memUsers
	interviews *memInterviews
	reports    *memReports
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config, *Deps)) *testEnv {
	t.Helper()
	bank, err := questions.Load("")
	require.NoError(t, err)

	cfg := config.Config{
		AppEnv:          "dev",
		JWTSecret:       testSecret,
		JWTTTL:          time.Hour,
		AdminEmail:      "admin@example.com",
		AdminPassword:   "hunter22",
		AdminSessionTTL: 8 * time.Hour,
		ScoringMode:     config.ScoringKeyword,
		MaxResumeBytes:  1024,
	}
	env := &testEnv{users: &memUsers{}, interviews: &memInterviews{}, reports: &memReports{}}

	sessions := services.NewSessions(
		services.NewMemorySessionStore(time.Hour),
		services.NewInterviewer(services.InterviewerOptions{Bank: bank, Scripted: true}),
		services.NewEvaluator(nil, config.ScoringKeyword, nil, nil),
		env.interviews,
		nil,
		nil,
	)
	deps := Deps{
		Users:      env.users,
		Interviews: env.interviews,
		Reports:    env.reports,
		Sessions:   sessions,
		Voice:      stubVoice{},
		Bank:       bank,
	}
	for _, m := range mutate {
		m(&cfg, &deps)
	}
	deps.Config = cfg
	env.cfg = cfg

	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	New(deps).Register(env.app)
	return env
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(testSecret, time.Hour, userID, role)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
