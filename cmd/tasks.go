package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/tutor"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [text...]",
	Short: "Generate a multiple-choice quiz from text or a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("count")
		if n == 0 {
			n = current.tutor.DefaultQuestions
		}
		svc, done, err := oneShotTutor(cmd)
		if err != nil {
			return err
		}
		defer done()

		batch, err := svc.GenerateQuiz(cmd.Context(), text, n)
		if err != nil {
			return err
		}
		for _, a := range batch.Anomalies {
			fmt.Fprintln(cmd.ErrOrStderr(), "skipped", a.String())
		}
		if err := batch.Err(); err != nil {
			return err
		}
		if batch.Short() {
			fmt.Fprintf(cmd.ErrOrStderr(), "only %d of %d questions could be parsed\n", batch.Len(), batch.Requested)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), batch)
		}
		hide, _ := cmd.Flags().GetBool("hide-answers")
		writeQuiz(cmd.OutOrStdout(), batch, !hide)
		return nil
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify [text...]",
	Short: "Explain text in simple terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		svc, done, err := oneShotTutor(cmd)
		if err != nil {
			return err
		}
		defer done()
		out, err := svc.Simplify(cmd.Context(), text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var personalizeCmd = &cobra.Command{
	Use:   "personalize [text...]",
	Short: "Rewrite content for a student at a difficulty level",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		difficulty, _ := cmd.Flags().GetString("difficulty")
		svc, done, err := oneShotTutor(cmd)
		if err != nil {
			return err
		}
		defer done()

		if preview, _ := cmd.Flags().GetBool("preview"); preview {
			sess := tutor.NewSession(tutor.RoleTeacher).WithTeacherContent(text)
			sess, err = svc.PreviewPersonalized(cmd.Context(), sess, difficulty)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Preview)
			return nil
		}

		out, err := svc.Personalize(cmd.Context(), text, difficulty)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question using only the given text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextText, err := inputText(cmd, nil)
		if err != nil {
			return err
		}
		svc, done, err := oneShotTutor(cmd)
		if err != nil {
			return err
		}
		defer done()
		out, err := svc.AnswerFollowUp(cmd.Context(), strings.Join(args, " "), contextText)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// oneShotTutor builds a tutor for a single command. The store is opened
// only to record the LLM events; call done to close it.
func oneShotTutor(cmd *cobra.Command) (svc *tutor.Service, done func(), err error) {
	st, _, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	svc, _, err = buildTutor(cmd.Context(), st.EventRepo())
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return svc, func() { st.Close() }, nil
}

// inputText returns the text to work on from --file, --text, args or a
// piped stdin, in that order.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	file, _ := cmd.Flags().GetString("file")
	text, _ := cmd.Flags().GetString("text")
	if file != "" && text != "" {
		return "", errors.New("use either --file or --text, not both")
	}

	switch {
	case file != "":
		return readDocument(file)
	case text != "":
		return text, nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	if f, ok := cmd.InOrStdin().(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.New("no input: pass --file, --text or pipe text on stdin")
		}
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no input: pass --file, --text or pipe text on stdin")
	}
	return string(data), nil
}

// writeQuiz prints batch in the same grammar the model is asked to use,
// so the output can be fed back through the parser.
func writeQuiz(w io.Writer, batch quiz.Batch, showAnswers bool) {
	for i, q := range batch.Questions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Q%d: %s\n", i+1, q.Text)
		for _, opt := range q.Options {
			fmt.Fprintln(w, opt)
		}
		if showAnswers {
			if idx := q.AnswerIndex(); idx >= 0 {
				fmt.Fprintf(w, "ANSWER: %s\n", quiz.Letters[idx])
			}
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addInputFlags(c *cobra.Command) {
	c.Flags().StringP("file", "f", "", "Read a PDF, DOCX or text file")
	c.Flags().StringP("text", "t", "", "Use this text")
}

func init() {
	for _, c := range []*cobra.Command{quizCmd, simplifyCmd, personalizeCmd, askCmd} {
		addInputFlags(c)
	}
	quizCmd.Flags().IntP("count", "n", 0, "Number of questions (default from config, 3)")
	quizCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	quizCmd.Flags().Bool("hide-answers", false, "Do not print the answer lines")

	personalizeCmd.Flags().StringP("difficulty", "d", "", "easy, medium or hard (default from config)")
	personalizeCmd.Flags().Bool("preview", false, "Only personalize the opening characters (tutor.preview_chars)")
}
