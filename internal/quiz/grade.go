package quiz

import "fmt"

// Grade scores answers against batch. It is pure: the same inputs always
// produce the same result. Answers for IDs not in the batch are ignored.
func Grade(answers Answers, batch Batch) GradeResult {
	result := GradeResult{
		Total:    len(batch.Questions),
		Feedback: make([]string, 0, len(batch.Questions)),
	}

	for _, q := range batch.Questions {
		selected, ok := answers[q.ID]
		switch {
		case !ok:
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Q: %s - not answered. Correct: %s", q.Text, q.CorrectAnswer))
		case selected == q.CorrectAnswer:
			result.Score++
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Q: %s - correct", q.Text))
		default:
			result.Feedback = append(result.Feedback,
				fmt.Sprintf("Q: %s - your answer: %s. Correct: %s", q.Text, selected, q.CorrectAnswer))
		}
	}

	return result
}
