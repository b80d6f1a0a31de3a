package models

import "time"

// UsageReport aggregates one UTC day of interviews.
type UsageReport struct {
	Date         string         `json:"date" bson:"_id"`
	Interviews   int            `json:"interviews" bson:"interviews"`
	UniqueUsers  int            `json:"uniqueUsers" bson:"uniqueUsers"`
	AverageScore int            `json:"averageScore" bson:"averageScore"`
	ByTopic      map[string]int `json:"byTopic" bson:"byTopic"`
	GeneratedAt  time.Time      `json:"generatedAt" bson:"generatedAt"`
}
