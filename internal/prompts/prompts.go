// Package prompts renders the instruction text sent to the LLM for each
// tutor task. Every function is pure.
package prompts

import (
	"fmt"
	"strings"
)

// QuizFormat is the literal output grammar the quiz parser accepts.
// Quiz embeds it verbatim.
const QuizFormat = `Q1: Question here?
A) Option
B) Option
C) Option
D) Option
ANSWER: <A, B, C or D>`

// Personalize asks for content rewritten for a student at difficulty,
// with analogies or examples.
func Personalize(content, difficulty string) string {
	return fmt.Sprintf(
		"Rewrite the content on '%s' for a %s level student. Include analogies or examples.",
		content, difficulty)
}

// Simplify asks for a plain-language explanation of text.
func Simplify(text string) string {
	return "Please explain this in simpler terms for a student:\n\n" + text
}

// Quiz asks for exactly n multiple-choice questions about paragraph in
// the QuizFormat grammar.
func Quiz(paragraph string, n int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice questions from the following paragraph.\n", n)
	b.WriteString("Each question should have 4 options labeled A), B), C), D).\n")
	b.WriteString("After the options, add an ANSWER line with the letter of the single correct option.\n")
	b.WriteString("Do not add any other text.\n")
	b.WriteString("Format:\n")
	b.WriteString(QuizFormat)
	b.WriteString("\n\nParagraph:\n")
	b.WriteString(paragraph)

	return b.String()
}

// FollowUp asks for a concise answer to question grounded only in
// contextText.
func FollowUp(question, contextText string) string {
	var b strings.Builder

	b.WriteString("Based on this context:\n\n")
	b.WriteString(contextText)
	b.WriteString("\n\nPlease answer this question concisely, using only the context above:\n")
	b.WriteString(question)

	return b.String()
}
