// File: internal/browser/options.go
package browser

import (
	"github.com/chromedp/chromedp"

	"github.com/tmcneil/chatprobe/internal/config"
)

// DefaultUserAgent is a realistic Chrome user agent, used when none is
// configured. Chat widgets frequently gate on obvious automation UAs.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// AllocatorOptions builds the chromedp exec allocator options for a probing
// session. The flag set keeps the browser stable in containers and avoids
// the most common automation tells.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	width, height := cfg.WindowWidth, cfg.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.UserAgent(ua),
		chromedp.WindowSize(width, height),

		// Prevent navigator.webdriver = true detection.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	if cfg.Headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}

	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}

	return opts
}
