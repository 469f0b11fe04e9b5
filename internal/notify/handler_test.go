package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternkit/internal/sink"
)

// tagged records "<tag>:<message>" so tests can see which handler emitted.
func tagged(rec *sink.Recorder, tag string) Channel {
	return ChannelFunc(func(message string) { rec.Emit(tag + ":" + message) })
}

func threeLevelChain(t *testing.T, rec *sink.Recorder) *Handler {
	t.Helper()
	head, err := Link(
		NewHandler(Informational, tagged(rec, "1")),
		NewHandler(Warning, tagged(rec, "2")),
		NewHandler(Critical, tagged(rec, "3")),
	)
	require.NoError(t, err)
	return head
}

func TestNotifyFiltersPerLink(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level Level
		want  []string
	}{
		{level: Informational, want: []string{"1:m"}},
		{level: Warning, want: []string{"1:m", "2:m"}},
		{level: Critical, want: []string{"1:m", "2:m", "3:m"}},
		{level: 42, want: []string{"1:m", "2:m", "3:m"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()
			var rec sink.Recorder
			head := threeLevelChain(t, &rec)

			n := head.Notify("m", tt.level)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, rec.Lines())
		})
	}
}

func TestNotifyBelowAllThresholds(t *testing.T) {
	var rec sink.Recorder
	head := threeLevelChain(t, &rec)

	assert.Zero(t, head.Notify("quiet", 0))
	assert.Zero(t, head.Notify("quieter", -5))
	assert.Empty(t, rec.Lines())
}

func TestNotifyDoesNotShortCircuit(t *testing.T) {
	// A matching head must not hide later matches, and a non-matching link
	// in the middle must not stop traversal.
	var rec sink.Recorder
	head, err := Link(
		NewHandler(Informational, tagged(&rec, "a")),
		NewHandler(Critical, tagged(&rec, "b")),
		NewHandler(Informational, tagged(&rec, "c")),
	)
	require.NoError(t, err)

	head.Notify("x", Warning)
	assert.Equal(t, []string{"a:x", "c:x"}, rec.Lines())
}

func TestNotifyStartsAtReceiver(t *testing.T) {
	var rec sink.Recorder
	head := threeLevelChain(t, &rec)

	head.Next().Notify("mid", Critical)
	assert.Equal(t, []string{"2:mid", "3:mid"}, rec.Lines())
}

func TestNotifyIsStateless(t *testing.T) {
	var rec sink.Recorder
	head := threeLevelChain(t, &rec)
	for i := 0; i < 3; i++ {
		head.Notify(fmt.Sprint(i), Warning)
	}
	assert.Equal(t, []string{"1:0", "2:0", "1:1", "2:1", "1:2", "2:2"}, rec.Lines())
}

func TestSetNextOverwrites(t *testing.T) {
	var rec sink.Recorder
	a := NewHandler(Informational, tagged(&rec, "a"))
	b := NewHandler(Informational, tagged(&rec, "b"))
	c := NewHandler(Informational, tagged(&rec, "c"))

	a.SetNext(b)
	a.SetNext(c)
	assert.Same(t, c, a.Next())
	assert.Equal(t, 2, a.Len())

	a.Notify("m", Informational)
	assert.Equal(t, []string{"a:m", "c:m"}, rec.Lines())
}

func TestLinkValidation(t *testing.T) {
	head, err := Link()
	assert.NoError(t, err)
	assert.Nil(t, head)

	h := NewHandler(Warning, nil)
	_, err = Link(h, nil)
	assert.ErrorIs(t, err, ErrNilHandler)

	_, err = Link(h, NewHandler(Critical, nil), h)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Nil(t, h.Next(), "rejected Link must not touch links")
}

func TestLinkClearsTail(t *testing.T) {
	a := NewHandler(Informational, nil)
	b := NewHandler(Warning, nil)
	stale := NewHandler(Critical, nil)
	b.SetNext(stale)

	head, err := Link(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, head.Len())
	assert.Nil(t, b.Next())
	assert.Equal(t, Warning, b.Threshold())
}

func TestNilChannelStillCounts(t *testing.T) {
	h := NewHandler(Informational, nil)
	assert.Equal(t, 1, h.Notify("m", Warning))
}
