package screen

import (
	"errors"

	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/tutor"
)

// Describe turns an error from a tutor operation into a short message
// for the status line.
func Describe(err error) string {
	var cerr *llm.CompletionError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tutor.ErrEmptyContent):
		return "Nothing to work with yet. Type or paste some text first."
	case errors.Is(err, tutor.ErrEmptyQuestion):
		return "Type a question first."
	case errors.Is(err, tutor.ErrInvalidQuestionCount):
		return err.Error()
	case errors.Is(err, tutor.ErrNoContext):
		return "Process some text before asking about it."
	case errors.Is(err, tutor.ErrNoQuiz):
		return "There is no quiz yet."
	case errors.Is(err, tutor.ErrAlreadySubmitted):
		return "This quiz was already submitted."
	case errors.Is(err, quiz.ErrNothingParsed):
		return "The AI reply had no readable questions. Try again."
	case errors.As(err, &cerr):
		return "The AI service failed: " + cerr.Err.Error()
	default:
		return err.Error()
	}
}
