// File: internal/probe/browser_test.go
package probe

import (
	"context"
	"time"

	"github.com/tmcneil/chatprobe/internal/browser"
	"github.com/tmcneil/chatprobe/internal/config"
)

// The real session must keep satisfying the stage interface.
var _ Browser = (*browser.Session)(nil)

// fakeBrowser scripts the browser primitives for stage tests. Unset function
// fields succeed with benign values; every call is recorded in order.
type fakeBrowser struct {
	navigateFn    func(url string) error
	dismissFn     func(text string, budget time.Duration) bool
	switchFrameFn func(hints []string) (string, bool, error)
	waitVisibleFn func(selector string) error
	countFn       func(selector string) (int, error)
	clickFn       func(selector string) error
	clearFn       func(selector string) error
	typeFn        func(selector, text string) error
	pressEnterFn  func(selector string) error
	evaluateFn    func(script string, res interface{}) error

	calls []string
}

func (f *fakeBrowser) record(name, arg string) {
	if arg == "" {
		f.calls = append(f.calls, name)
		return
	}
	f.calls = append(f.calls, name+" "+arg)
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.record("navigate", url)
	if f.navigateFn != nil {
		return f.navigateFn(url)
	}
	return nil
}

func (f *fakeBrowser) DismissConsent(_ context.Context, text string, budget time.Duration) bool {
	f.record("consent", text)
	if f.dismissFn != nil {
		return f.dismissFn(text, budget)
	}
	return false
}

func (f *fakeBrowser) SwitchToChatFrame(_ context.Context, hints []string) (string, bool, error) {
	f.record("switch_frame", "")
	if f.switchFrameFn != nil {
		return f.switchFrameFn(hints)
	}
	return "", false, nil
}

func (f *fakeBrowser) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	f.record("wait_visible", selector)
	if f.waitVisibleFn != nil {
		return f.waitVisibleFn(selector)
	}
	return nil
}

func (f *fakeBrowser) Count(_ context.Context, selector string) (int, error) {
	f.record("count", selector)
	if f.countFn != nil {
		return f.countFn(selector)
	}
	return 1, nil
}

func (f *fakeBrowser) Click(_ context.Context, selector string) error {
	f.record("click", selector)
	if f.clickFn != nil {
		return f.clickFn(selector)
	}
	return nil
}

func (f *fakeBrowser) ClearInput(_ context.Context, selector string) error {
	f.record("clear", selector)
	if f.clearFn != nil {
		return f.clearFn(selector)
	}
	return nil
}

func (f *fakeBrowser) TypeText(_ context.Context, selector, text string) error {
	f.record("type", selector)
	if f.typeFn != nil {
		return f.typeFn(selector, text)
	}
	return nil
}

func (f *fakeBrowser) PressEnter(_ context.Context, selector string) error {
	f.record("press_enter", selector)
	if f.pressEnterFn != nil {
		return f.pressEnterFn(selector)
	}
	return nil
}

func (f *fakeBrowser) Evaluate(_ context.Context, script string, res interface{}) error {
	f.record("evaluate", "")
	if f.evaluateFn != nil {
		return f.evaluateFn(script, res)
	}
	return nil
}

// testProbeConfig returns the default probe config with timings shrunk so
// poll loops resolve in milliseconds.
func testProbeConfig() config.ProbeConfig {
	cfg := config.NewDefaultConfig().Probe
	cfg.SelectorWait = 10 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.ReplyTimeout = 50 * time.Millisecond
	return cfg
}
