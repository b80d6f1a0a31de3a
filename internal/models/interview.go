package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interview is a completed, persisted interview. It is never updated.
type Interview struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"userId" bson:"userId"`
	Topic      string             `json:"topic" bson:"topic"`
	Difficulty string             `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Score      int                `json:"score" bson:"score"`
	Feedback   FeedbackResult     `json:"feedback" bson:"feedback"`
	Date       time.Time          `json:"date" bson:"date"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateInterviewRequest struct {
	Topic      string         `json:"topic" validate:"required,max=100"`
	Difficulty string         `json:"difficulty" validate:"omitempty,oneof=junior mid senior lead"`
	Date       string         `json:"date"`
	Feedback   FeedbackResult `json:"feedback"`
}

// InterviewSummary is the projection used by dashboards.
type InterviewSummary struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    string             `json:"userId,omitempty" bson:"userId,omitempty"`
	Topic     string             `json:"topic" bson:"topic"`
	Score     int                `json:"score" bson:"score"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type TopicCount struct {
	Topic string `json:"name" bson:"_id"`
	Count int64  `json:"value" bson:"count"`
}

type InterviewFilter struct {
	UserID string
	Topic  string
	From   *time.Time
	To     *time.Time
}
