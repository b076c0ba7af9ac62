// File: internal/probe/driver.go
package probe

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmcneil/chatprobe/internal/config"
)

// Driver locates the chat input control and submits prompts through it.
type Driver struct {
	session Browser
	cfg     config.ProbeConfig
	logger  *zap.Logger
}

// NewDriver wires a driver to a browser session.
func NewDriver(session Browser, cfg config.ProbeConfig, logger *zap.Logger) *Driver {
	return &Driver{
		session: session,
		cfg:     cfg,
		logger:  logger.Named("driver"),
	}
}

// Send walks the input selector candidates in order and submits the prompt
// through the first one that matches: click, clear, type, Enter. It returns
// the selector that was used, or a typed StageError when every candidate
// missed (FailureInputNotFound) or the interaction itself failed
// (FailureSubmit). Either failure skips only this prompt; caller
// cancellation surfaces as FailureCanceled instead.
func (d *Driver) Send(ctx context.Context, prompt string) (string, *StageError) {
	selector, found := d.locateInput(ctx)
	if !found {
		if err := ctx.Err(); err != nil {
			return "", &StageError{Kind: FailureCanceled, Err: err}
		}
		return "", &StageError{
			Kind: FailureInputNotFound,
			Err:  fmt.Errorf("no input selector matched after %d candidates", len(d.cfg.InputSelectors)),
		}
	}
	d.logger.Info("Found input box.", zap.String("selector", selector))

	if err := d.submit(ctx, selector, prompt); err != nil {
		return selector, &StageError{Kind: FailureSubmit, Err: err}
	}
	return selector, nil
}

// locateInput probes the candidate list left to right, first match wins.
// A candidate that never becomes visible within the per-selector wait is
// skipped, not retried.
func (d *Driver) locateInput(ctx context.Context) (string, bool) {
	for _, selector := range d.cfg.InputSelectors {
		if ctx.Err() != nil {
			return "", false
		}

		if err := d.session.WaitVisible(ctx, selector, d.cfg.SelectorWait); err != nil {
			d.logger.Debug("Input candidate not present.", zap.String("selector", selector), zap.Error(err))
			continue
		}

		n, err := d.session.Count(ctx, selector)
		if err != nil || n == 0 {
			d.logger.Debug("Input candidate matched nothing.", zap.String("selector", selector), zap.Error(err))
			continue
		}

		return selector, true
	}
	return "", false
}

// submit runs the click/clear/type/Enter sequence against the located input.
func (d *Driver) submit(ctx context.Context, selector, prompt string) error {
	if err := d.session.Click(ctx, selector); err != nil {
		return fmt.Errorf("failed to focus input %q: %w", selector, err)
	}
	if err := d.session.ClearInput(ctx, selector); err != nil {
		return fmt.Errorf("failed to clear input %q: %w", selector, err)
	}
	if err := d.session.TypeText(ctx, selector, prompt); err != nil {
		return fmt.Errorf("failed to type prompt into %q: %w", selector, err)
	}
	if err := d.session.PressEnter(ctx, selector); err != nil {
		return fmt.Errorf("failed to submit prompt via %q: %w", selector, err)
	}
	return nil
}
