package models

import "time"

// Turn roles in a live interview transcript.
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is a live interview kept in the session store until it is finished.
type Session struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Messages   []Turn     `json:"messages"`
	Index      int        `json:"questionIndex"`
	Completed  bool       `json:"completed"`
	ResumeName string     `json:"resumeName,omitempty"`
	ResumeText string     `json:"resumeText,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Answers returns the user turns in order.
func (s *Session) Answers() []string {
	answers := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			answers = append(answers, m.Text)
		}
	}
	return answers
}

// LastPrompt is the most recent interviewer line, or "".
func (s *Session) LastPrompt() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAI {
			return s.Messages[i].Text
		}
	}
	return ""
}

// Transcript pairs each answer with the question it answered.
func (s *Session) Transcript() []QA {
	answers := s.Answers()
	n := min(len(answers), len(s.Questions))
	out := make([]QA, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, QA{Question: s.Questions[i], Answer: answers[i]})
	}
	return out
}

type StartSessionRequest struct {
	Topic      string `json:"topic" form:"topic" validate:"required,max=100"`
	Difficulty string `json:"difficulty" form:"difficulty" validate:"omitempty,oneof=junior mid senior lead"`
	Count      int    `json:"count" form:"count" validate:"omitempty,min=1,max=10"`
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=5000"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
	Message string   `json:"message"`
}
