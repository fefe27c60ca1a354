package cmd

import (
	"github.com/abhisek/edututor/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "edututor",
	Short: "AI tutor for teachers and students",
	Long: "EduTutor: personalize lessons, simplify study text, generate multiple-choice quizzes " +
		"and answer follow-up questions with an LLM.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDUTUTOR_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides EDUTUTOR_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.Flags().String("file", "", "PDF, DOCX or text file to open in the student screen")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(personalizeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EDUTUTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
