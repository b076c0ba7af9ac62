// File: internal/probe/harvester.go
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tmcneil/chatprobe/internal/config"
)

// SentinelNoReply is recorded when no reply could be extracted; it is scored
// like any other reply text.
const SentinelNoReply = "No reply detected"

// collectRepliesScript returns, for the first selector with any matches, the
// selector and the inner text of every match.
const collectRepliesScript = `(function(selectors) {
	for (const sel of selectors) {
		const nodes = document.querySelectorAll(sel);
		if (nodes.length > 0) {
			return {
				selector: sel,
				texts: Array.from(nodes).map(n => n.innerText || ''),
			};
		}
	}
	return {selector: '', texts: []};
})(%s)`

// collected mirrors the script's return value.
type collected struct {
	Selector string   `json:"selector"`
	Texts    []string `json:"texts"`
}

// Harvester extracts the most recent bot reply from the active target.
//
// Instead of a blind fixed sleep, it polls a readiness predicate: the
// candidate reply must be non-empty and identical across two consecutive
// polls. Chat UIs stream tokens into the DOM, so a stable snapshot is the
// closest observable signal for "the bot has finished".
type Harvester struct {
	session Browser
	cfg     config.ProbeConfig
	logger  *zap.Logger
}

// NewHarvester wires a harvester to a browser session.
func NewHarvester(session Browser, cfg config.ProbeConfig, logger *zap.Logger) *Harvester {
	return &Harvester{
		session: session,
		cfg:     cfg,
		logger:  logger.Named("harvester"),
	}
}

// Harvest polls until a reply stabilizes or the budget expires. It returns
// usable reply text: the stable reply on success, the last observed text on
// FailureReplyTimeout, or SentinelNoReply on FailureNoReply. The StageError
// is nil only on a stable reply. Caller cancellation is the one outcome with
// no reply text; it surfaces as FailureCanceled and must not be scored.
func (h *Harvester) Harvest(ctx context.Context) (string, *StageError) {
	pollCtx, cancel := context.WithTimeout(ctx, h.cfg.ReplyTimeout)
	defer cancel()

	ticker := time.NewTicker(h.cfg.PollInterval)
	defer ticker.Stop()

	var previous, lastSeen string
	for {
		select {
		case <-pollCtx.Done():
			if err := ctx.Err(); err != nil {
				// Caller cancellation, not budget expiry; the prompt must
				// not be scored as a degraded reply.
				return "", &StageError{Kind: FailureCanceled, Err: err}
			}
			if lastSeen != "" {
				h.logger.Warn("Reply never stabilized within budget; using last observed text.",
					zap.Duration("budget", h.cfg.ReplyTimeout))
				return lastSeen, &StageError{
					Kind: FailureReplyTimeout,
					Err:  fmt.Errorf("reply did not stabilize within %s", h.cfg.ReplyTimeout),
				}
			}
			return SentinelNoReply, &StageError{
				Kind: FailureNoReply,
				Err:  fmt.Errorf("no reply selector matched within %s", h.cfg.ReplyTimeout),
			}
		case <-ticker.C:
			candidate, n, err := h.snapshot(pollCtx)
			if err != nil {
				// Extraction errors fall back to the sentinel path, per
				// contract; keep polling until the budget decides.
				h.logger.Debug("Reply snapshot failed.", zap.Error(err))
				continue
			}
			if candidate == "" {
				continue
			}

			if n > 1 {
				// The newest matching element is assumed to be the latest
				// reply. That ordering is not validated against message
				// timestamps, so make the assumption visible.
				h.logger.Debug("Multiple reply candidates; taking the last one.", zap.Int("candidates", n))
			}

			if candidate == previous {
				return candidate, nil
			}
			previous = candidate
			lastSeen = candidate
		}
	}
}

// snapshot collects the current reply candidates and reduces them to the
// last surviving entry after filtering. n is the survivor count.
func (h *Harvester) snapshot(ctx context.Context) (string, int, error) {
	var result collected
	script := fmt.Sprintf(collectRepliesScript, jsStringArray(h.cfg.ReplySelectors))
	if err := h.session.Evaluate(ctx, script, &result); err != nil {
		return "", 0, err
	}

	survivors := FilterReplies(result.Texts, h.cfg.BoilerplateMarkers)
	if len(survivors) == 0 {
		return "", 0, nil
	}
	return survivors[len(survivors)-1], len(survivors), nil
}

// FilterReplies drops empty or whitespace-only strings and anything
// containing a boilerplate marker (brand footers and the like).
func FilterReplies(texts, markers []string) []string {
	var out []string
	for _, t := range texts {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		if containsAny(trimmed, markers) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m == "" {
			continue
		}
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// jsStringArray renders a Go string slice as a JavaScript array literal.
func jsStringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
