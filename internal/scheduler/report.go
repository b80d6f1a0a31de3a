// Package scheduler runs the daily usage report.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

const dateLayout = "2006-01-02"

type InterviewSource interface {
	Between(ctx context.Context, from, to time.Time) ([]models.InterviewSummary, error)
}

type ReportSink interface {
	Upsert(ctx context.Context, rep models.UsageReport) error
}

// ReportJob aggregates the previous UTC day's interviews into a UsageReport.
type ReportJob struct {
	source InterviewSource
	sink   ReportSink
	logger *slog.Logger
	now    func() time.Time
}

func NewReportJob(source InterviewSource, sink ReportSink, logger *slog.Logger) *ReportJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportJob{source: source, sink: sink, logger: logger, now: time.Now}
}

// Run builds and stores the report for the day before now.
func (j *ReportJob) Run(ctx context.Context) (models.UsageReport, error) {
	today := j.now().UTC().Truncate(24 * time.Hour)
	return j.RunFor(ctx, today.Add(-24*time.Hour))
}

// RunFor builds and stores the report for the UTC day containing day.
func (j *ReportJob) RunFor(ctx context.Context, day time.Time) (models.UsageReport, error) {
	from := day.UTC().Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	items, err := j.source.Between(ctx, from, to)
	if err != nil {
		return models.UsageReport{}, fmt.Errorf("load interviews: %w", err)
	}
	rep := BuildUsageReport(from.Format(dateLayout), items, j.now().UTC())
	if err := j.sink.Upsert(ctx, rep); err != nil {
		return models.UsageReport{}, err
	}
	j.logger.Info("usage report stored",
		slog.String("date", rep.Date),
		slog.Int("interviews", rep.Interviews),
		slog.Int("unique_users", rep.UniqueUsers),
	)
	return rep, nil
}

// BuildUsageReport aggregates items into the report for date.
func BuildUsageReport(date string, items []models.InterviewSummary, generatedAt time.Time) models.UsageReport {
	rep := models.UsageReport{
		Date:        date,
		Interviews:  len(items),
		ByTopic:     map[string]int{},
		GeneratedAt: generatedAt,
	}
	users := map[string]struct{}{}
	sum := 0
	for _, it := range items {
		rep.ByTopic[it.Topic]++
		if it.UserID != "" {
			users[it.UserID] = struct{}{}
		}
		sum += it.Score
	}
	rep.UniqueUsers = len(users)
	if len(items) > 0 {
		rep.AverageScore = int(math.Round(float64(sum) / float64(len(items))))
	}
	return rep
}

// Start schedules the job on the cron expression spec in UTC. The returned cron must be stopped
// by the caller.
func Start(spec string, job *ReportJob, timeout time.Duration, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := job.Run(ctx); err != nil {
			logger.Error("usage report failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule usage report %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
