package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

type fakeSource struct {
	items    []models.InterviewSummary
	err      error
	from, to time.Time
}

func (f *fakeSource) Between(_ context.Context, from, to time.Time) ([]models.InterviewSummary, error) {
	f.from, f.to = from, to
	return f.items, f.err
}

type fakeSink struct {
	reports []models.UsageReport
}

func (f *fakeSink) Upsert(_ context.Context, rep models.UsageReport) error {
	f.reports = append(f.reports, rep)
	return nil
}

func TestBuildUsageReport(t *testing.T) {
	gen := time.Date(2026, 3, 2, 0, 5, 0, 0, time.UTC)
	rep := BuildUsageReport("2026-03-01", []models.InterviewSummary{
		{UserID: "u1", Topic: "react", Score: 80},
		{UserID: "u1", Topic: "react", Score: 61},
		{UserID: "u2", Topic: "backend", Score: 40},
	}, gen)

	assert.Equal(t, "2026-03-01", rep.Date)
	assert.Equal(t, 3, rep.Interviews)
	assert.Equal(t, 2, rep.UniqueUsers)
	assert.Equal(t, 60, rep.AverageScore)
	assert.Equal(t, map[string]int{"react": 2, "backend": 1}, rep.ByTopic)
	assert.Equal(t, gen, rep.GeneratedAt)

	empty := BuildUsageReport("2026-03-01", nil, gen)
	assert.Zero(t, empty.Interviews)
	assert.Zero(t, empty.AverageScore)
	assert.NotNil(t, empty.ByTopic)
}

func TestReportJob_RunCoversPreviousDay(t *testing.T) {
	src := &fakeSource{items: []models.InterviewSummary{{UserID: "u1", Topic: "react", Score: 90}}}
	sink := &fakeSink{}
	job := NewReportJob(src, sink, nil)
	job.now = func() time.Time { return time.Date(2026, 3, 2, 0, 5, 0, 0, time.UTC) }

	rep, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), src.from)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), src.to)
	assert.Equal(t, "2026-03-01", rep.Date)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, 90, sink.reports[0].AverageScore)
}

func TestReportJob_SourceError(t *testing.T) {
	sink := &fakeSink{}
	job := NewReportJob(&fakeSource{err: errors.New("mongo down")}, sink, nil)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, sink.reports)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	_, err := Start("not a cron", NewReportJob(&fakeSource{}, &fakeSink{}, nil), time.Minute, nil)
	require.Error(t, err)

	c, err := Start("5 0 * * *", NewReportJob(&fakeSource{}, &fakeSink{}, nil), time.Minute, nil)
	require.NoError(t, err)
	<-c.Stop().Done()
}
