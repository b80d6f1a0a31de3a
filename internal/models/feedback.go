package models

// Metric is one named 0-100 gauge of a FeedbackResult.
type Metric struct {
	ID       string `json:"id" bson:"id"`
	Label    string `json:"label" bson:"label"`
	Value    int    `json:"value" bson:"value"`
	Feedback string `json:"feedback" bson:"feedback"`
}

type QuestionFeedback struct {
	Question    string `json:"question" bson:"question"`
	UserAnswer  string `json:"userAnswer" bson:"userAnswer"`
	Score       int    `json:"score" bson:"score"`
	Feedback    string `json:"feedback" bson:"feedback"`
	IdealAnswer string `json:"idealAnswer" bson:"idealAnswer"`
}

// FeedbackResult is the scored report produced when an interview ends.
type FeedbackResult struct {
	Score            int                `json:"score" bson:"score"`
	Metrics          []Metric           `json:"metrics" bson:"metrics"`
	Summary          string             `json:"summary" bson:"summary"`
	QuestionFeedback []QuestionFeedback `json:"questionFeedback" bson:"questionFeedback"`
}

// Clamp forces every score of f into [0,100] and replaces nil slices with
// empty ones.
func (f *FeedbackResult) Clamp() {
	f.Score = ClampScore(f.Score)
	if f.Metrics == nil {
		f.Metrics = []Metric{}
	}
	for i := range f.Metrics {
		f.Metrics[i].Value = ClampScore(f.Metrics[i].Value)
	}
	if f.QuestionFeedback == nil {
		f.QuestionFeedback = []QuestionFeedback{}
	}
	for i := range f.QuestionFeedback {
		f.QuestionFeedback[i].Score = ClampScore(f.QuestionFeedback[i].Score)
	}
}

func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
