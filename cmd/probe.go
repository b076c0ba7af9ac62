// File: cmd/probe.go
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tmcneil/chatprobe/internal/browser"
	"github.com/tmcneil/chatprobe/internal/config"
	"github.com/tmcneil/chatprobe/internal/observability"
	"github.com/tmcneil/chatprobe/internal/probe"
	"github.com/tmcneil/chatprobe/internal/reporting"
	"github.com/tmcneil/chatprobe/internal/suite"
)

// newProbeCmd creates and configures the `probe` command.
func newProbeCmd() *cobra.Command {
	probeCmd := &cobra.Command{
		Use:   "probe [target-url]",
		Short: "Runs the prompt suite against a chatbot page and scores the replies",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their Viper keys so command-line flags override
			// values from the config file and environment.
			if err := viper.BindPFlag("report.output", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("suite.file", cmd.Flags().Lookup("suite")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			return viper.BindPFlag("probe.reply_timeout", cmd.Flags().Lookup("reply-timeout"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			if len(args) == 1 {
				viper.Set("probe.target_url", args[0])
			}

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			cases, err := suite.Load(cfg.Suite.File)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			logger.Info("Starting probe run",
				zap.String("run_id", runID),
				zap.String("target", cfg.Probe.TargetURL),
				zap.Int("prompts", len(cases)),
				zap.String("output", cfg.Report.Output),
			)

			session, err := browser.NewSession(ctx, cfg.Browser, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser session: %w", err)
			}
			// The browser is released no matter how the run ends.
			defer session.Close()

			runner := probe.NewRunner(session, cfg.Probe, logger)
			if err := runner.Bootstrap(ctx); err != nil {
				return err
			}

			records, runErr := runner.Run(ctx, cases)

			// Whatever was collected gets persisted, even on an aborted run.
			if err := writeReport(cfg.Report.Output, records, logger); err != nil {
				return err
			}

			reporting.Summarize(records).Render(os.Stdout)
			logger.Info("Probe run complete",
				zap.String("run_id", runID),
				zap.Int("scored", len(records)),
				zap.Int("skipped", len(cases)-len(records)),
				zap.String("results_file", cfg.Report.Output),
			)

			return runErr
		},
	}

	probeCmd.Flags().StringP("output", "o", "chatbot_results.csv", "Output CSV file path (overwritten each run)")
	probeCmd.Flags().StringP("suite", "s", "", "Path to a JSON prompt suite (defaults to the built-in suite)")
	probeCmd.Flags().Bool("headless", true, "Run the browser headless")
	probeCmd.Flags().Duration("reply-timeout", 30*time.Second, "Maximum wait for a reply to stabilize (overrides config/env)")

	return probeCmd
}

// writeReport persists the result collection to CSV.
func writeReport(path string, records []reporting.Record, logger *zap.Logger) error {
	reporter, err := reporting.NewCSVReporter(path)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Error("Failed to close reporter", zap.Error(err))
		}
	}()

	if err := reporter.Write(records); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Results saved.", zap.String("path", path), zap.Int("rows", len(records)))
	return nil
}
