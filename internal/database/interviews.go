package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

type InterviewRepository struct {
	col *mongo.Collection
}

func NewInterviewRepository(db *mongo.Database) *InterviewRepository {
	return &InterviewRepository{col: db.Collection(InterviewsCollection)}
}

// Create inserts iv and assigns its ID.
func (r *InterviewRepository) Create(ctx context.Context, iv *models.Interview) error {
	if iv.ID.IsZero() {
		iv.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, iv); err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error) {
	var iv models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find interview %s: %w", id.Hex(), err)
	}
	return &iv, nil
}

// ListByUser returns the user's interviews, newest first.
func (r *InterviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Interview{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode interviews: %w", err)
	}
	return out, nil
}

// Find returns one page of interviews matching f and the total match count.
func (r *InterviewRepository) Find(ctx context.Context, f models.InterviewFilter, page, limit int) ([]models.Interview, int64, error) {
	filter := interviewFilter(f)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find interviews: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Interview{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode interviews: %w", err)
	}
	return out, total, nil
}

// Recent returns the latest n interview summaries.
func (r *InterviewRepository) Recent(ctx context.Context, n int64) ([]models.InterviewSummary, error) {
	opts := options.Find().
		SetProjection(summaryProjection).
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(n)
	return r.summaries(ctx, bson.M{}, opts)
}

// Between returns summaries created in [from, to).
func (r *InterviewRepository) Between(ctx context.Context, from, to time.Time) ([]models.InterviewSummary, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetProjection(summaryProjection).SetSort(bson.M{"createdAt": 1})
	return r.summaries(ctx, filter, opts)
}

// CountByTopic groups every interview by topic, most common first.
func (r *InterviewRepository) CountByTopic(ctx context.Context) ([]models.TopicCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$topic"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate topics: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.TopicCount{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	return out, nil
}

// ScoreStats returns the interview count and mean score, optionally for one
// user.
func (r *InterviewRepository) ScoreStats(ctx context.Context, userID string) (int64, float64, error) {
	match := bson.D{}
	if userID != "" {
		match = bson.D{{Key: "userId", Value: userID}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate scores: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int64   `bson:"count"`
		Avg   float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode scores: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Avg, nil
}

var summaryProjection = bson.M{"_id": 1, "userId": 1, "topic": 1, "score": 1, "createdAt": 1}

func (r *InterviewRepository) summaries(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.InterviewSummary, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find interviews: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.InterviewSummary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode interviews: %w", err)
	}
	return out, nil
}

func interviewFilter(f models.InterviewFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.Topic != "" {
		filter["topic"] = f.Topic
	}
	if f.From != nil || f.To != nil {
		createdAt := bson.M{}
		if f.From != nil {
			createdAt["$gte"] = *f.From
		}
		if f.To != nil {
			createdAt["$lte"] = *f.To
		}
		filter["createdAt"] = createdAt
	}
	return filter
}
