package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developia-II/interview-practice-backend/internal/llm"
	"github.com/developia-II/interview-practice-backend/internal/models"
	"github.com/developia-II/interview-practice-backend/internal/questions"
)

type stubProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, _, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return r, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func stubClient(p llm.Provider) *llm.Client {
	return llm.NewClient(p, time.Second, 0, nil, nil)
}

func testBank(t *testing.T) *questions.Bank {
	t.Helper()
	b, err := questions.Load("")
	require.NoError(t, err)
	return b
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type fakeInterviews struct {
	mu    sync.Mutex
	saved []*models.Interview
	err   error
}

func (f *fakeInterviews) Create(_ context.Context, iv *models.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	iv.ID = primitive.NewObjectID()
	f.saved = append(f.saved, iv)
	return nil
}
