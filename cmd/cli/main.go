package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"polymer-kinetics-api/internal/config"
	"polymer-kinetics-api/internal/kinetics"
	"polymer-kinetics-api/internal/parser"
	"polymer-kinetics-api/internal/upstream"
	"polymer-kinetics-api/pkg/logger"
)

var (
	baseURL string
	timeout time.Duration
	verbose bool
	jsonOut bool
	svc     *kinetics.Service
)

var rootCmd = &cobra.Command{
	Use:   "kpctl",
	Short: "kpctl queries propagation rate coefficients from the polymer database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		l := logger.NewWithLevel(os.Stderr, level)
		client := upstream.NewClient(upstream.Options{BaseURL: baseURL, Timeout: timeout})
		svc = kinetics.NewService(client, parser.New(), l)
	},
	SilenceUsage: true,
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", cfg.UpstreamBaseURL, "polymer database base url")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", cfg.UpstreamTimeout, "timeout of a single upstream request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log upstream activity")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON instead of a table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
