// File: internal/probe/browser.go
package probe

import (
	"context"
	"time"
)

// Browser is the subset of the browser session the probe stages drive.
// The stages depend on this interface rather than the concrete session so
// the selector walk, the reply-stability polling, and the batch sequencing
// can be exercised against a scripted fake.
type Browser interface {
	// Navigate loads the target URL on the top-level page.
	Navigate(ctx context.Context, url string) error
	// DismissConsent best-effort clicks a consent button; reports whether
	// one was clicked.
	DismissConsent(ctx context.Context, buttonText string, budget time.Duration) bool
	// SwitchToChatFrame repoints the active target at a matching iframe.
	SwitchToChatFrame(ctx context.Context, urlHints []string) (frameURL string, found bool, err error)
	// WaitVisible blocks until the selector is visible or the budget expires.
	WaitVisible(ctx context.Context, selector string, budget time.Duration) error
	// Count returns how many elements match the selector.
	Count(ctx context.Context, selector string) (int, error)
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// ClearInput empties any existing content in the matched control.
	ClearInput(ctx context.Context, selector string) error
	// TypeText types the text into the matched control via key events.
	TypeText(ctx context.Context, selector, text string) error
	// PressEnter submits by sending the Enter key to the matched control.
	PressEnter(ctx context.Context, selector string) error
	// Evaluate runs a JavaScript snippet in the active target.
	Evaluate(ctx context.Context, script string, res interface{}) error
}
