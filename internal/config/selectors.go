// File: internal/config/selectors.go
package config

// Default selector candidate lists for the chat widget.
//
// Chat UIs change their DOM frequently; each list is ordered from the most
// specific locator to the most generic fallback and is tried left to right,
// first match wins. Update these (or override them in config.yaml) when
// probing breaks against a new page version.

// DefaultInputSelectors locate the message entry control.
var DefaultInputSelectors = []string{
	`div[role='textbox']`,
	`div[contenteditable='true']`,
	`textarea`,
	`input`,
	`div[class*='ProseMirror']`,
	`[data-placeholder*='Type']`,
	`[aria-label*='message']`,
}

// DefaultReplySelectors locate rendered assistant messages.
var DefaultReplySelectors = []string{
	`div[data-role='assistant']`,
	`div[data-testid='assistant-message']`,
	`div[class*='assistant']`,
	`div[class*='markdown']`,
	`div[class*='prose']`,
	`div[class*='chat']`,
	`div[class*='response']`,
}
