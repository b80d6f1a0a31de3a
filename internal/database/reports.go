package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

// ReportRepository stores one UsageReport per day, keyed by date.
type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(ReportsCollection)}
}

func (r *ReportRepository) Upsert(ctx context.Context, rep models.UsageReport) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": rep.Date}, rep, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert report %s: %w", rep.Date, err)
	}
	return nil
}

// List returns up to limit reports, newest first.
func (r *ReportRepository) List(ctx context.Context, limit int64) ([]models.UsageReport, error) {
	opts := options.Find().SetSort(bson.M{"_id": -1}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.UsageReport{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return out, nil
}
