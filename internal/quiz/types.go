// Package quiz turns free-text LLM completions into validated
// multiple-choice questions and grades answers against them.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Letters are the option labels, in display order.
var Letters = [4]string{"A", "B", "C", "D"}

// ErrNothingParsed means a non-empty completion yielded no usable
// questions. It is recoverable: the caller may ask again.
var ErrNothingParsed = errors.New("no questions could be parsed from the completion")

// Question is one multiple-choice question.
type Question struct {
	// ID is unique within its batch and across batches.
	ID string `json:"id"`

	// Text is the question stem, trimmed and non-empty.
	Text string `json:"question_text"`

	// Options holds exactly four entries prefixed "A) ".."D) ".
	Options []string `json:"options"`

	// CorrectAnswer is value-equal to exactly one element of Options.
	CorrectAnswer string `json:"correct_answer"`
}

// AnswerIndex returns the position of CorrectAnswer in Options, or -1.
func (q Question) AnswerIndex() int {
	for i, o := range q.Options {
		if o == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Option returns the option labelled letter (case-insensitive).
func (q Question) Option(letter string) (string, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range Letters {
		if l == letter && i < len(q.Options) {
			return q.Options[i], true
		}
	}
	return "", false
}

// OptionText returns option i without its "A) " label.
func (q Question) OptionText(i int) string {
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return strings.TrimPrefix(q.Options[i], Letters[i]+") ")
}

// Anomaly records a block the parser saw but could not turn into a
// question.
type Anomaly struct {
	// Ordinal is the 1-based position of the block among the question
	// markers found in the completion.
	Ordinal int    `json:"ordinal"`
	Reason  string `json:"reason"`
	Excerpt string `json:"excerpt"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("block %d: %s (%q)", a.Ordinal, a.Reason, a.Excerpt)
}

// Batch is the ordered set of questions parsed from one completion.
// Treat it as immutable once returned by a Parser.
type Batch struct {
	Questions []Question `json:"questions"`

	// Token is the batch-level uniqueness token embedded in every ID.
	Token string `json:"token"`

	// Requested is the number of questions that were asked for.
	Requested int `json:"requested"`

	// Raw is the completion text the batch was parsed from.
	Raw string `json:"-"`

	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Len returns the number of questions.
func (b Batch) Len() int { return len(b.Questions) }

// Empty reports whether the batch holds no questions.
func (b Batch) Empty() bool { return len(b.Questions) == 0 }

// Short reports whether fewer questions were parsed than requested.
func (b Batch) Short() bool { return len(b.Questions) < b.Requested }

// Lookup returns the question with the given ID.
func (b Batch) Lookup(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Err returns an error wrapping ErrNothingParsed when non-empty raw text
// produced no questions, and nil otherwise.
func (b Batch) Err() error {
	if !b.Empty() || strings.TrimSpace(b.Raw) == "" {
		return nil
	}
	if len(b.Anomalies) > 0 {
		return fmt.Errorf("%w: %d block(s) rejected, first: %s", ErrNothingParsed, len(b.Anomalies), b.Anomalies[0].Reason)
	}
	return ErrNothingParsed
}

// Answers maps question IDs to the selected option string. A missing key
// means the question was not answered.
type Answers map[string]string

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Score    int      `json:"score"`
	Total    int      `json:"total"`
	Feedback []string `json:"feedback"`
}
