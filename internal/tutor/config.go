package tutor

// Config holds tutor settings.
type Config struct {
	// DefaultQuestions is the quiz size used when the caller doesn't ask
	// for one, and for the student "process text" action.
	DefaultQuestions int

	// MaxQuestions caps the quiz size a caller may request. Zero means
	// no cap.
	MaxQuestions int

	// Difficulty is the personalization level used when none is given.
	Difficulty string

	// PreviewChars is how much of the teacher's content feeds the
	// personalized preview. Zero sends all of it.
	PreviewChars int

	// Model overrides the gateway's model for every tutor call when set.
	Model string

	// TextMaxTokens and QuizMaxTokens bound prose and quiz completions.
	TextMaxTokens int
	QuizMaxTokens int

	Temperature     float64
	QuizTemperature float64
}

// DefaultConfig returns sensible defaults for the tutor.
func DefaultConfig() Config {
	return Config{
		DefaultQuestions: 3,
		MaxQuestions:     10,
		Difficulty:       "medium",
		PreviewChars:     70,
		TextMaxTokens:    1024,
		QuizMaxTokens:    2048,
		Temperature:      0.7,
		QuizTemperature:  0.4,
	}
}
