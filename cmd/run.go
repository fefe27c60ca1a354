package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/edututor/internal/app"
	"github.com/abhisek/edututor/internal/extract"
	"github.com/abhisek/edututor/internal/screen"
	"github.com/abhisek/edututor/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so diagnostics go next to the database.
	logPath := filepath.Join(filepath.Dir(dbPath), "edututor.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	setLogOutput(logFile)

	ws := &screen.Workspace{Events: st.EventRepo()}

	svc, model, err := buildTutor(ctx, ws.Events)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		slog.Warn("tutor unavailable", "err", err)
		ws.SetupErr = err
	} else {
		ws.Tutor = svc
		ws.Model = model
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		text, err := readDocument(path)
		if err != nil {
			return err
		}
		ws.Session = tutor.NewSession(tutor.RoleStudent).WithStudentText(text)
	}

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{Workspace: ws, SkipWelcome: skip})
}

// readDocument extracts the text of a PDF, DOCX or plain text file.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	text, err := extract.Document(data, "")
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}
