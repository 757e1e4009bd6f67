package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/innerweather/internal/cli"
	"github.com/terraincognita07/innerweather/internal/config"
	"github.com/terraincognita07/innerweather/internal/logging"
	"go.uber.org/zap"
)

// runtimeState is filled by the root command before any subcommand runs.
type runtimeState struct {
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	state := &runtimeState{}

	root := &cobra.Command{
		Use:   "innerweather",
		Short: "Inner Weather journaling service",
		Long: `innerweather runs the Inner Weather API: daily reflections are stored per user
and enriched with an AI-generated emotional weather report.

Configuration comes from CONFIG_FILE (YAML), .env and the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}

	root.AddCommand(newServeCommand(state))
	root.AddCommand(newMigrateCommand(state))
	root.AddCommand(newTokenCommand(state))
	return root
}

func newServeCommand(state *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), state.cfg, state.logger)
		},
	}
}

func newMigrateCommand(state *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunMigrateCommand(cmd.OutOrStdout(), state.cfg.DBPath, state.logger)
		},
	}
}

func newTokenCommand(state *runtimeState) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunTokenCommand(cmd.OutOrStdout(), []byte(state.cfg.AuthSecret), cli.TokenOptions{
				UserID:   userID,
				Issuer:   state.cfg.AuthIssuer,
				Audience: state.cfg.AuthAudience,
				TTL:      ttl,
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id to place in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", cli.DefaultTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
