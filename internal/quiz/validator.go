package quiz

import (
	"fmt"
	"strings"
)

// Validator checks a parsed question before it enters a batch.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in anomaly reasons,
	// e.g. "structural", "options".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{MaxStem: 1000, MaxOption: 300},
		&OptionsValidator{},
	}
}

// StructuralValidator checks that the stem and options are present and
// within length limits. A zero limit disables that check.
type StructuralValidator struct {
	MaxStem   int
	MaxOption int
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question text is empty"}
	}
	if v.MaxStem > 0 && len(q.Text) > v.MaxStem {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question text exceeds %d characters", v.MaxStem),
		}
	}
	for i := range q.Options {
		text := strings.TrimSpace(q.OptionText(i))
		if text == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %s is empty", Letters[i]),
			}
		}
		if v.MaxOption > 0 && len(text) > v.MaxOption {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %s exceeds %d characters", Letters[i], v.MaxOption),
			}
		}
	}
	return nil
}

// OptionsValidator checks the option set: exactly four canonically
// labelled, distinct options and a correct answer that is one of them.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	if len(q.Options) != len(Letters) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", len(Letters), len(q.Options)),
		}
	}

	seen := make(map[string]string, len(q.Options))
	for i, o := range q.Options {
		if !strings.HasPrefix(o, Letters[i]+") ") {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is not labelled %q", i+1, Letters[i]+") "),
			}
		}
		key := strings.ToLower(strings.TrimSpace(q.OptionText(i)))
		if prev, dup := seen[key]; dup {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("options %s and %s are identical", prev, Letters[i]),
			}
		}
		seen[key] = Letters[i]
	}

	matches := 0
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "correct answer is not one of the options",
		}
	}
	return nil
}
