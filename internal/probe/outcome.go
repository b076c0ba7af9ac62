// File: internal/probe/outcome.go

// Package probe drives prompts into the chat widget and harvests the
// rendered replies. Stage failures are typed so the runner can log them
// structurally and decide whether a prompt is skipped or scored.
package probe

import "fmt"

// FailureKind classifies why a probe stage did not fully succeed.
type FailureKind string

const (
	// FailureInputNotFound means no input selector candidate matched; the
	// prompt is skipped and produces no result record.
	FailureInputNotFound FailureKind = "input_not_found"
	// FailureSubmit means an input was found but typing or submitting it
	// failed; the prompt is skipped.
	FailureSubmit FailureKind = "submit_failed"
	// FailureReplyTimeout means the reply never stabilized within the
	// harvest budget; the last observed text is still scored.
	FailureReplyTimeout FailureKind = "reply_timeout"
	// FailureNoReply means no reply selector ever matched (or everything
	// matched was boilerplate); the sentinel reply is scored.
	FailureNoReply FailureKind = "no_reply"
	// FailureCanceled means the caller canceled the run mid-stage. The
	// prompt is not scored and the batch stops.
	FailureCanceled FailureKind = "canceled"
)

// StageError carries a failure kind alongside the underlying cause.
type StageError struct {
	Kind FailureKind
	Err  error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
