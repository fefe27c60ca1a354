package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/edututor/internal/api"
	"github.com/abhisek/edututor/internal/config"
	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/store"
	"github.com/abhisek/edututor/internal/tutor"
)

// settings is the merged configuration for one invocation:
// defaults, then the YAML file, then environment variables, then flags.
type settings struct {
	llm      llm.Config
	tutor    tutor.Config
	server   api.Config
	logLevel slog.Level
}

var current settings

func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("EDUTUTOR_CONFIG")
	}
	file, err := config.Load(path)
	if err != nil {
		return err
	}

	s := settings{
		llm:    llm.DefaultConfig(),
		tutor:  tutor.DefaultConfig(),
		server: api.DefaultConfig(),
	}
	file.ApplyLLM(&s.llm)
	file.ApplyTutor(&s.tutor)
	file.ApplyServer(&s.server)
	llm.ApplyEnv(&s.llm)
	api.ApplyEnv(&s.server)

	level, _ := cmd.Flags().GetString("log-level")
	if err := s.logLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	current = s
	setLogOutput(os.Stderr)
	return nil
}

// setLogOutput installs the default slog logger writing text to w.
func setLogOutput(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: current.logLevel})))
}

// openStore opens the event database selected by --db.
func openStore(cmd *cobra.Command) (*store.Store, string, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	return st, dbPath, nil
}

// buildTutor wires provider, gateway and service. The returned string is
// the model label shown to users.
func buildTutor(ctx context.Context, events store.EventRepo) (*tutor.Service, string, error) {
	provider, llmCfg, err := llm.NewProviderFromConfig(ctx, current.llm, events)
	if err != nil {
		return nil, "", fmt.Errorf("LLM provider not configured: %w", err)
	}
	gateway := llm.NewGateway(provider,
		llm.WithTimeout(llmCfg.Timeout),
		llm.WithDefaultMaxTokens(current.tutor.TextMaxTokens),
	)
	model := gateway.ModelID()
	if current.tutor.Model != "" {
		model = current.tutor.Model
	}
	slog.Debug("tutor ready", "provider", llmCfg.Provider, "model", model)
	return tutor.NewService(gateway, current.tutor), model, nil
}
