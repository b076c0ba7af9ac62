// File: internal/browser/session.go

// Package browser owns the Chrome session used to drive the chatbot page.
// A Session carries an explicit "active context": the top-level page by
// default, or the chat widget's iframe target once one is detected. Every
// stage receives the Session value rather than rebinding a shared handle.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/tmcneil/chatprobe/internal/config"
)

// Session represents a live browser and the target currently being probed.
type Session struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	// activeCtx points at the top-level page, or at the chat iframe target
	// after SwitchToChatFrame succeeds.
	activeCtx    context.Context
	activeCancel context.CancelFunc

	mu       sync.Mutex
	isClosed bool
}

// NewSession launches the browser process and attaches to a fresh tab.
// The caller must Close the session to release the browser.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser to start and CDP to connect.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := &Session{
		logger:        logger.Named("browser"),
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		activeCtx:     browserCtx,
	}

	// A page alert() left open blocks every subsequent CDP action, so
	// dialogs are accepted as they appear.
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if dialog, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			s.logger.Debug("Accepting JavaScript dialog.", zap.String("message", dialog.Message))
			go func() {
				if err := chromedp.Run(browserCtx, page.HandleJavaScriptDialog(true)); err != nil {
					s.logger.Debug("Failed to dismiss JavaScript dialog.", zap.Error(err))
				}
			}()
		}
	})

	s.logger.Debug("Browser session started.")
	return s, nil
}

// Navigate loads the target URL on the top-level page. Navigation failure is
// fatal to the run, so the error is returned unrecovered.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Opening target page.", zap.String("url", url))

	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}

	opCtx, opCancel := combineContext(s.browserCtx, ctx)
	defer opCancel()
	navCtx, navCancel := context.WithTimeout(opCtx, navTimeout)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation timed out after %s: %w", navTimeout, err)
		}
		if opCtx.Err() != nil {
			return fmt.Errorf("navigation canceled: %w", opCtx.Err())
		}
		return fmt.Errorf("navigation failed: %w", err)
	}

	return s.settle(opCtx)
}

// settle waits for the document to be ready instead of sleeping a fixed
// duration. Failure here is logged, not fatal: heavily scripted pages can
// keep the readiness signal busy long after the widget is usable.
func (s *Session) settle(ctx context.Context) error {
	settleTimeout := s.cfg.SettleTimeout
	if settleTimeout <= 0 {
		settleTimeout = 10 * time.Second
	}
	settleCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	if err := chromedp.Run(settleCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("Page did not settle within budget, continuing anyway.", zap.Error(err))
	}
	return nil
}

// consentClickScript clicks the first button whose text contains the marker.
const consentClickScript = `(function(marker) {
	const buttons = document.querySelectorAll('button');
	for (const b of buttons) {
		if ((b.innerText || '').includes(marker)) {
			b.click();
			return true;
		}
	}
	return false;
})(%q)`

// DismissConsent makes a best-effort attempt to click a consent-accept
// control. It reports whether a button was clicked; errors are swallowed by
// contract, logged at debug only.
func (s *Session) DismissConsent(ctx context.Context, buttonText string, budget time.Duration) bool {
	if budget <= 0 {
		budget = 3 * time.Second
	}
	opCtx, opCancel := combineContext(s.activeCtx, ctx)
	defer opCancel()
	clickCtx, cancel := context.WithTimeout(opCtx, budget)
	defer cancel()

	var clicked bool
	script := fmt.Sprintf(consentClickScript, buttonText)
	if err := chromedp.Run(clickCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		s.logger.Debug("Consent dismissal attempt failed.", zap.Error(err))
		return false
	}
	if clicked {
		s.logger.Info("Dismissed consent dialog.", zap.String("button_text", buttonText))
	}
	return clicked
}

// SwitchToChatFrame looks for an iframe target whose URL contains one of the
// given substrings and, if found, repoints the active context at it. The
// returned URL identifies the frame; found is false when the widget lives in
// the top-level page.
func (s *Session) SwitchToChatFrame(ctx context.Context, urlHints []string) (string, bool, error) {
	targets, err := chromedp.Targets(s.browserCtx)
	if err != nil {
		return "", false, fmt.Errorf("failed to enumerate browser targets: %w", err)
	}

	for _, t := range targets {
		if t.Type != "iframe" {
			continue
		}
		if !MatchesFrameURL(t.URL, urlHints) {
			continue
		}

		frameCtx, frameCancel := chromedp.NewContext(s.browserCtx, chromedp.WithTargetID(t.TargetID))
		if err := chromedp.Run(frameCtx); err != nil {
			frameCancel()
			return "", false, fmt.Errorf("failed to attach to chat frame %s: %w", t.URL, err)
		}

		s.mu.Lock()
		s.activeCtx = frameCtx
		s.activeCancel = frameCancel
		s.mu.Unlock()

		s.logger.Info("Chat widget found in iframe, switching context.", zap.String("frame_url", t.URL))
		return t.URL, true, nil
	}

	s.logger.Debug("No matching iframe target, probing the top-level page.")
	return "", false, nil
}

// MatchesFrameURL reports whether a frame URL contains any of the hints,
// case-insensitively.
func MatchesFrameURL(url string, hints []string) bool {
	lowered := strings.ToLower(url)
	for _, h := range hints {
		if h == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

// Run executes chromedp actions against the active target, honoring both the
// session lifetime and the caller's context.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.active(), ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Evaluate runs a JavaScript snippet in the active target, optionally
// unmarshaling the result into res.
func (s *Session) Evaluate(ctx context.Context, script string, res interface{}) error {
	return s.Run(ctx, chromedp.Evaluate(script, res))
}

// WaitVisible blocks until the selector is visible in the active target or
// the wait budget expires.
func (s *Session) WaitVisible(ctx context.Context, selector string, budget time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	return s.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Count returns how many elements match the selector in the active target.
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	var n int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := s.Evaluate(ctx, script, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Click clicks the first element matching the selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	return s.Run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// clearInputScript empties value-bearing controls and contenteditable nodes.
const clearInputScript = `(function(sel) {
	const el = document.querySelector(sel);
	if (!el) return false;
	if ('value' in el && el.tagName !== 'DIV') {
		el.value = '';
	} else {
		el.textContent = '';
	}
	return true;
})(%q)`

// ClearInput empties any existing content in the matched control.
func (s *Session) ClearInput(ctx context.Context, selector string) error {
	var cleared bool
	script := fmt.Sprintf(clearInputScript, selector)
	if err := s.Evaluate(ctx, script, &cleared); err != nil {
		return err
	}
	if !cleared {
		return fmt.Errorf("no element matched selector %q while clearing input", selector)
	}
	return nil
}

// TypeText types the text into the matched control via key events.
func (s *Session) TypeText(ctx context.Context, selector, text string) error {
	return s.Run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// PressEnter submits by sending the Enter key to the matched control.
func (s *Session) PressEnter(ctx context.Context, selector string) error {
	return s.Run(ctx, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery))
}

// active returns the current target context.
func (s *Session) active() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCtx
}

// Close terminates the browser session. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return
	}
	s.isClosed = true
	activeCancel := s.activeCancel
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if activeCancel != nil {
		activeCancel()
	}
	s.browserCancel()
	s.allocCancel()
}

// combineContext derives a context from primary (which carries the CDP
// target values) that is also canceled when secondary is done. chromedp
// requires the CDP context in the parent chain, so the operational deadline
// has to be attached this way around.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	stop := context.AfterFunc(secondary, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}
