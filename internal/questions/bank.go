// Package questions holds the topic catalog and the built-in question banks.
package questions

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/developia-II/interview-practice-backend/internal/models"
)

//go:embed questions.yaml
var defaultBank []byte

const (
	// DefaultTopic is used for any topic the banks do not know.
	DefaultTopic = "behavioral"
	// ResumeTopic is the topic that accepts a resume upload.
	ResumeTopic       = "resume"
	DefaultDifficulty = "mid"
)

type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Bank is the parsed question file.
type Bank struct {
	Topics       []Option                     `yaml:"topics"`
	Difficulties []Option                     `yaml:"difficulties"`
	ScriptedSets map[string][]models.Question `yaml:"scripted"`
	FallbackSets map[string][]models.Question `yaml:"fallback"`
}

// Load reads the bank at path, or the embedded bank when path is empty.
func Load(path string) (*Bank, error) {
	data := defaultBank
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question bank %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bank) validate() error {
	if _, ok := b.ScriptedSets[DefaultTopic]; !ok {
		return fmt.Errorf("question bank: scripted section lacks %q", DefaultTopic)
	}
	for _, section := range []map[string][]models.Question{b.ScriptedSets, b.FallbackSets} {
		for topic, qs := range section {
			if len(qs) == 0 {
				return fmt.Errorf("question bank: topic %q has no questions", topic)
			}
			for i, q := range qs {
				if strings.TrimSpace(q.Text) == "" {
					return fmt.Errorf("question bank: topic %q question %d has no text", topic, i)
				}
			}
		}
	}
	return nil
}

// Scripted returns the scripted set for topic, or the behavioral set.
func (b *Bank) Scripted(topic string) []models.Question {
	qs, ok := b.ScriptedSets[topic]
	if !ok {
		qs = b.ScriptedSets[DefaultTopic]
	}
	return clone(qs)
}

// Fallback returns at most count questions to use when the generative model
// is unavailable. Topics missing from the fallback section borrow the
// scripted set before settling on behavioral.
func (b *Bank) Fallback(topic string, count int) []models.Question {
	key := NormalizeTopic(topic)
	qs, ok := b.FallbackSets[key]
	if !ok {
		qs, ok = b.ScriptedSets[key]
	}
	if !ok {
		qs, ok = b.FallbackSets[DefaultTopic]
	}
	if !ok {
		qs = b.ScriptedSets[DefaultTopic]
	}
	if count > 0 && count < len(qs) {
		qs = qs[:count]
	}
	return clone(qs)
}

// TopicLabel returns the display label for topic, or topic itself.
func (b *Bank) TopicLabel(topic string) string {
	for _, t := range b.Topics {
		if t.ID == topic {
			return t.Label
		}
	}
	return topic
}

// NormalizeTopic lower-cases topic and joins words with underscores.
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), "_")
}

func clone(qs []models.Question) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		q.Keywords = append([]string(nil), q.Keywords...)
		out[i] = q
	}
	return out
}
