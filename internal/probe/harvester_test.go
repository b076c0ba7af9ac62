// File: internal/probe/harvester_test.go
package probe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedReplies builds a fakeBrowser whose reply snapshots walk the given
// sequence, repeating the final entry once exhausted.
func scriptedReplies(texts ...[]string) *fakeBrowser {
	i := 0
	return &fakeBrowser{
		evaluateFn: func(_ string, res interface{}) error {
			out := res.(*collected)
			out.Selector = `div[class*='chat']`
			out.Texts = texts[i]
			if i < len(texts)-1 {
				i++
			}
			return nil
		},
	}
}

func TestHarvest_StableAfterTwoIdenticalPolls(t *testing.T) {
	fb := scriptedReplies(
		[]string{"Autumn lea"},
		[]string{"Autumn leaves drift down"},
		[]string{"Autumn leaves drift down"},
	)

	h := NewHarvester(fb, testProbeConfig(), zap.NewNop())
	reply, stageErr := h.Harvest(context.Background())

	require.Nil(t, stageErr)
	assert.Equal(t, "Autumn leaves drift down", reply)
}

func TestHarvest_LastSurvivorWins(t *testing.T) {
	// Multiple rendered messages: the newest (last) surviving element is
	// the reply, and boilerplate never wins.
	fb := scriptedReplies(
		[]string{"older reply", "newest reply", "Powered by Caesar Labs"},
	)

	h := NewHarvester(fb, testProbeConfig(), zap.NewNop())
	reply, stageErr := h.Harvest(context.Background())

	require.Nil(t, stageErr)
	assert.Equal(t, "newest reply", reply)
}

func TestHarvest_ReplyTimeout(t *testing.T) {
	// The text keeps streaming and never repeats; the budget expires and
	// the last observed text is still returned, tagged as a timeout.
	n := 0
	fb := &fakeBrowser{
		evaluateFn: func(_ string, res interface{}) error {
			n++
			out := res.(*collected)
			out.Texts = []string{fmt.Sprintf("streaming token %d", n)}
			return nil
		},
	}

	h := NewHarvester(fb, testProbeConfig(), zap.NewNop())
	reply, stageErr := h.Harvest(context.Background())

	require.NotNil(t, stageErr)
	assert.Equal(t, FailureReplyTimeout, stageErr.Kind)
	assert.Contains(t, reply, "streaming token")
}

func TestHarvest_NoReply(t *testing.T) {
	fb := scriptedReplies([]string{})

	h := NewHarvester(fb, testProbeConfig(), zap.NewNop())
	reply, stageErr := h.Harvest(context.Background())

	require.NotNil(t, stageErr)
	assert.Equal(t, FailureNoReply, stageErr.Kind)
	assert.Equal(t, SentinelNoReply, reply)
}

func TestHarvest_CallerCancellation(t *testing.T) {
	// Cancellation is not a harvest outcome; no degraded reply text comes
	// back, so nothing gets scored as reply_timeout or no_reply.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testProbeConfig()
	cfg.ReplyTimeout = time.Minute

	h := NewHarvester(scriptedReplies([]string{"mid-stream"}), cfg, zap.NewNop())
	reply, stageErr := h.Harvest(ctx)

	require.NotNil(t, stageErr)
	assert.Equal(t, FailureCanceled, stageErr.Kind)
	assert.ErrorIs(t, stageErr, context.Canceled)
	assert.Empty(t, reply)
}

func TestFilterReplies(t *testing.T) {
	markers := []string{"Caesar Labs"}

	tests := []struct {
		name  string
		texts []string
		want  []string
	}{
		{
			name:  "drops empty and whitespace",
			texts: []string{"", "   ", "\n\t", "a real reply"},
			want:  []string{"a real reply"},
		},
		{
			name:  "drops boilerplate marker",
			texts: []string{"first reply", "Powered by Caesar Labs", "second reply"},
			want:  []string{"first reply", "second reply"},
		},
		{
			name:  "trims survivors",
			texts: []string{"  padded reply  "},
			want:  []string{"padded reply"},
		},
		{
			name:  "everything filtered",
			texts: []string{"", "Caesar Labs footer"},
			want:  nil,
		},
		{
			name:  "no texts",
			texts: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterReplies(tt.texts, markers))
		})
	}
}

func TestFilterReplies_NoMarkers(t *testing.T) {
	got := FilterReplies([]string{"anything goes", ""}, nil)
	assert.Equal(t, []string{"anything goes"}, got)
}

func TestFilterReplies_EmptyMarkerIgnored(t *testing.T) {
	// An empty marker would match every string; it must be skipped.
	got := FilterReplies([]string{"reply"}, []string{""})
	assert.Equal(t, []string{"reply"}, got)
}

func TestJSStringArray(t *testing.T) {
	assert.Equal(t, `[]`, jsStringArray(nil))
	assert.Equal(t, `["textarea"]`, jsStringArray([]string{"textarea"}))
	assert.Equal(t,
		`["div[data-role='assistant']", "div[class*='chat']"]`,
		jsStringArray([]string{`div[data-role='assistant']`, `div[class*='chat']`}))
	// Quotes inside selectors must stay escaped.
	assert.Equal(t, `["a\"b"]`, jsStringArray([]string{`a"b`}))
}
