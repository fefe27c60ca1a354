package tutor

import "errors"

// Input errors are returned before any LLM call is made.
var (
	ErrEmptyContent         = errors.New("content is empty")
	ErrEmptyQuestion        = errors.New("question is empty")
	ErrInvalidQuestionCount = errors.New("invalid number of questions")
	ErrNoContext            = errors.New("no processed text to ask about")
	ErrNoQuiz               = errors.New("no quiz to submit")
	ErrAlreadySubmitted     = errors.New("quiz already submitted")
)
