package quiz

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Parser turns a raw completion into a Batch. Parse never fails: a
// completion with nothing usable yields an empty batch whose Err reports
// ErrNothingParsed.
type Parser interface {
	Parse(raw string, requested int) Batch
}

var (
	// Q1: stem / Q1. stem, only at the start of a line.
	markerRe = regexp.MustCompile(`^\s*Q(\d+)\s*[:.]\s*(.*)$`)

	// A) text, optionally written (A) text. Any capital is captured so
	// labels past D can be rejected instead of read as option text.
	optionRe = regexp.MustCompile(`^\s*\(?([A-Z])\)\s*(.*)$`)

	// Field lines such as "Explanation: ..." or "**Hint:** ...".
	fieldRe = regexp.MustCompile(`^\s*\**[A-Za-z][A-Za-z ]{0,30}\**\s*:`)

	// ANSWER: B, case-insensitive, "Correct answer:" accepted.
	answerRe = regexp.MustCompile(`(?i)^\s*(?:correct\s+)?answer\s*:\s*(.*)$`)

	// The letter at the start of the answer designator: "B", "b)", "(B)",
	// "B. Salt", "B) Salt".
	letterRe = regexp.MustCompile(`^\(?([A-Da-d])(?:[\s.):]|$)`)
)

const excerptLen = 60

// GrammarParser reads the line-oriented grammar:
//
//	Q<n>: <stem>
//	A) <option>
//	B) <option>
//	C) <option>
//	D) <option>
//	ANSWER: <A|B|C|D>
//
// Stems and options may wrap onto continuation lines. Lines after the
// answer line and before the next marker are ignored.
type GrammarParser struct {
	// Validators run in order on every parsed question; the first failure
	// drops the question.
	Validators []Validator

	// NewToken returns the batch uniqueness token. Defaults to a UUID.
	NewToken func() string
}

// NewGrammarParser returns a parser with the default validator chain.
func NewGrammarParser() *GrammarParser {
	return &GrammarParser{Validators: DefaultValidators()}
}

// block is one question as read from the text, before validation.
type block struct {
	ordinal int
	first   string
	stem    []string
	options []string
	letter  string
	answer  bool
}

func (p *GrammarParser) Parse(raw string, requested int) Batch {
	token := p.token()
	batch := Batch{
		Token:     token,
		Requested: requested,
		Raw:       raw,
	}

	blocks, anomalies := scanBlocks(raw)
	batch.Anomalies = anomalies

	for _, b := range blocks {
		q, reason := b.question()
		if reason == "" {
			reason = p.validate(&q)
		}
		if reason != "" {
			batch.Anomalies = append(batch.Anomalies, Anomaly{
				Ordinal: b.ordinal,
				Reason:  reason,
				Excerpt: excerpt(b.first),
			})
			continue
		}
		q.ID = fmt.Sprintf("%s-q%d", token, len(batch.Questions)+1)
		batch.Questions = append(batch.Questions, q)
	}

	slices.SortStableFunc(batch.Anomalies, func(a, b Anomaly) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	return batch
}

func (p *GrammarParser) token() string {
	if p.NewToken != nil {
		return p.NewToken()
	}
	return uuid.NewString()
}

func (p *GrammarParser) validate(q *Question) string {
	for _, v := range p.Validators {
		if err := v.Validate(q); err != nil {
			return err.Error()
		}
	}
	return ""
}

// question builds the candidate Question from a complete block, or
// returns the reason it cannot.
func (b block) question() (Question, string) {
	letter := strings.ToUpper(b.letter)
	idx := -1
	for i, l := range Letters {
		if l == letter {
			idx = i
		}
	}
	if idx < 0 {
		return Question{}, "answer designator does not name A, B, C or D"
	}

	q := Question{
		Text:    strings.Join(b.stem, " "),
		Options: make([]string, len(b.options)),
	}
	for i, o := range b.options {
		q.Options[i] = Letters[i] + ") " + o
	}
	q.CorrectAnswer = q.Options[idx]
	return q, ""
}

// scanBlocks walks raw line by line and returns the complete blocks in
// order, plus an anomaly for every marker whose block was incomplete.
func scanBlocks(raw string) ([]block, []Anomaly) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		blocks    []block
		anomalies []Anomaly
		cur       *block
		ordinal   int
		skipping  bool // current block is finished or abandoned
	)

	abandon := func(reason string) {
		anomalies = append(anomalies, Anomaly{
			Ordinal: cur.ordinal,
			Reason:  reason,
			Excerpt: excerpt(cur.first),
		})
		skipping = true
	}

	closeBlock := func() {
		if cur == nil || skipping {
			return
		}
		switch {
		case len(cur.options) < len(Letters):
			abandon(fmt.Sprintf("expected options A-D, found %d", len(cur.options)))
		case !cur.answer:
			abandon("missing ANSWER line")
		}
	}

	for _, line := range lines {
		if m := markerRe.FindStringSubmatch(line); m != nil {
			closeBlock()
			ordinal++
			cur = &block{ordinal: ordinal, first: strings.TrimSpace(line)}
			skipping = false
			if stem := strings.TrimSpace(m[2]); stem != "" {
				cur.stem = append(cur.stem, stem)
			}
			continue
		}
		if cur == nil || skipping {
			continue
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if m := answerRe.FindStringSubmatch(line); m != nil {
			if len(cur.options) < len(Letters) {
				abandon(fmt.Sprintf("expected options A-D, found %d", len(cur.options)))
				continue
			}
			cur.answer = true
			cur.letter = answerLetter(m[1])
			blocks = append(blocks, *cur)
			skipping = true
			continue
		}

		// A label past D before any option is stem text, e.g. "I) ...".
		if m := optionRe.FindStringSubmatch(line); m != nil && (len(cur.options) > 0 || m[1] <= "D") {
			want := len(cur.options)
			switch {
			case want >= len(Letters):
				abandon(fmt.Sprintf("unexpected option %s after D", m[1]))
				continue
			case m[1] != Letters[want]:
				abandon(fmt.Sprintf("option %s out of order", m[1]))
				continue
			}
			cur.options = append(cur.options, strings.TrimSpace(m[2]))
			continue
		}

		if n := len(cur.options); n > 0 && fieldRe.MatchString(line) {
			abandon(fmt.Sprintf("unexpected field line after option %s", Letters[n-1]))
			continue
		}

		// Continuation of the stem or of the last option.
		if n := len(cur.options); n > 0 {
			cur.options[n-1] = joinWords(cur.options[n-1], text)
		} else {
			cur.stem = append(cur.stem, text)
		}
	}
	closeBlock()

	return blocks, anomalies
}

// answerLetter extracts the option letter from the text after "ANSWER:".
// It returns "" when no letter can be read.
func answerLetter(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "*_`")
	m := letterRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

func joinWords(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen]) + "..."
}
