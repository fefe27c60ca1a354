package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/edututor/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutor as an HTTP JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, model, err := buildTutor(cmd.Context(), st.EventRepo())
		if err != nil {
			return err
		}

		srv, err := api.NewServer(svc, cfg)
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("starting edututor API", "addr", cfg.Addr, "model", model)
		return srv.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config and EDUTUTOR_ADDR)")
}
