// File: internal/probe/runner.go
package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tmcneil/chatprobe/internal/config"
	"github.com/tmcneil/chatprobe/internal/reporting"
	"github.com/tmcneil/chatprobe/internal/scoring"
	"github.com/tmcneil/chatprobe/internal/suite"
)

// Runner executes a prompt suite against the chatbot page: session
// bootstrap, then a strictly sequential prompt/harvest/score loop.
type Runner struct {
	session   Browser
	driver    *Driver
	harvester *Harvester
	cfg       config.ProbeConfig
	logger    *zap.Logger
}

// NewRunner assembles the probe pipeline around a browser session.
func NewRunner(session Browser, cfg config.ProbeConfig, logger *zap.Logger) *Runner {
	return &Runner{
		session:   session,
		driver:    NewDriver(session, cfg, logger),
		harvester: NewHarvester(session, cfg, logger),
		cfg:       cfg,
		logger:    logger.Named("runner"),
	}
}

// Bootstrap navigates to the target, dismisses any consent overlay, and
// switches into the chat iframe when the widget lives in one. Navigation
// failure is fatal; the other two steps are best-effort.
func (r *Runner) Bootstrap(ctx context.Context) error {
	if err := r.session.Navigate(ctx, r.cfg.TargetURL); err != nil {
		return fmt.Errorf("session bootstrap failed: %w", err)
	}

	r.session.DismissConsent(ctx, r.cfg.ConsentText, r.cfg.ConsentTimeout)

	if _, _, err := r.session.SwitchToChatFrame(ctx, r.cfg.FrameURLHints); err != nil {
		// Frame detection failing is not fatal; the top-level page stays active.
		r.logger.Warn("Chat frame detection failed, probing the top-level page.", zap.Error(err))
	}
	return nil
}

// Run drives every test case in order and returns the result collection.
// A failing prompt never aborts the batch; only context cancellation stops
// the loop early.
func (r *Runner) Run(ctx context.Context, cases []suite.TestCase) ([]reporting.Record, error) {
	records := make([]reporting.Record, 0, len(cases))

	for i, tc := range cases {
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("probe run aborted: %w", err)
		}

		log := r.logger.With(zap.Int("prompt_index", i), zap.String("prompt", tc.Input))
		log.Info("Sending message.")
		start := time.Now()

		if _, stageErr := r.driver.Send(ctx, tc.Input); stageErr != nil {
			if stageErr.Kind == FailureCanceled {
				return records, fmt.Errorf("probe run aborted: %w", stageErr.Err)
			}
			log.Warn("Prompt skipped.",
				zap.String("failure_kind", string(stageErr.Kind)),
				zap.Error(stageErr.Err))
			continue
		}

		reply, stageErr := r.harvester.Harvest(ctx)
		if stageErr != nil {
			if stageErr.Kind == FailureCanceled {
				return records, fmt.Errorf("probe run aborted: %w", stageErr.Err)
			}
			// Timeout and no-reply outcomes are still scored; the reply text
			// already reflects the degraded result.
			log.Warn("Harvest degraded.",
				zap.String("failure_kind", string(stageErr.Kind)),
				zap.Error(stageErr.Err))
		}

		record := r.score(tc, reply, time.Since(start))
		records = append(records, record)

		log.Info("Prompt scored.",
			zap.String("reply_excerpt", Excerpt(reply, r.cfg.ReplyExcerptLen)),
			zap.Float64("response_time_s", record.ResponseTime),
			zap.Float64("accuracy_pct", record.Accuracy),
			zap.String("tone", string(record.Tone)))
	}

	return records, nil
}

// score builds the write-once result record for a prompt. Latency includes
// the settle and harvest waits; it is wall-clock, not isolated compute time.
func (r *Runner) score(tc suite.TestCase, reply string, elapsed time.Duration) reporting.Record {
	return reporting.Record{
		Input:        tc.Input,
		Reply:        reply,
		ResponseTime: scoring.Latency(elapsed),
		Accuracy:     scoring.Accuracy(reply, tc.ExpectedKeywords),
		Tone:         scoring.ToneOf(reply),
	}
}

// Excerpt truncates text for progress logging, rune-safe.
func Excerpt(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
