package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"off", LevelOff, false},
		{"", LevelOff, false},
		{"Phase", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"verbose", LevelOff, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	assert.True(t, LevelPhase.ShouldEmit(ScopePass))
	assert.False(t, LevelPhase.ShouldEmit(ScopeModule))
	assert.True(t, LevelDetail.ShouldEmit(ScopeModule))
	assert.False(t, LevelDetail.ShouldEmit(ScopeNode))
	assert.True(t, LevelDebug.ShouldEmit(ScopeNode))
	assert.False(t, LevelError.ShouldEmit(ScopeDriver))
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopePass, "lower", 0)
	child := Begin(tr, ScopeModule, "lower:main", root.ID())
	child.WithExtra("blocks", "3").End("")
	Begin(tr, ScopeNode, "filtered", child.ID()).End("")
	root.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "> lower")
	assert.Contains(t, lines[1], "> lower:main")
	assert.Contains(t, lines[2], "< lower:main")
	assert.Contains(t, lines[2], "blocks=3")
	assert.Contains(t, lines[3], "< lower (ok)")
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(tr, ScopePass, "cache", "hit", 0)

	out := buf.String()
	assert.Contains(t, out, `"kind":"point"`)
	assert.Contains(t, out, `"name":"cache"`)
	assert.Contains(t, out, `"detail":"hit"`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "", 0)
	}
	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].Name)
	assert.Equal(t, "e", snap[2].Name)
	assert.Less(t, snap[0].Seq, snap[2].Seq)

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, FormatText))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelPhase, FormatText)
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, stream, ring)

	Begin(m, ScopeDriver, "build", 0).End("")

	got, ok := m.Ring()
	require.True(t, ok)
	assert.Len(t, got.Snapshot(), 2)
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	require.NoError(t, m.Close())
}

func TestNewHonoursConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeStream, Output: &buf})
	require.NoError(t, err)
	Point(tr, ScopePass, "x", "", 0)
	assert.Contains(t, buf.String(), "* x")

	_, err = New(Config{Level: LevelPhase, Mode: StorageMode(42)})
	require.Error(t, err)
}

func TestInertSpan(t *testing.T) {
	s := Begin(nil, ScopePass, "x", 7)
	assert.Equal(t, uint64(7), s.ID())
	assert.Zero(t, s.WithExtra("k", "v").End(""))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Nop, FromContext(ctx))

	r := NewRingTracer(4, LevelPhase)
	ctx = WithParent(WithTracer(ctx, r), 9)
	assert.Same(t, r, FromContext(ctx))
	assert.Equal(t, uint64(9), ParentFromContext(ctx))
}

func TestHeartbeatStop(t *testing.T) {
	assert.Nil(t, StartHeartbeat(Nop, 0))
	var nilBeat *Heartbeat
	nilBeat.Stop()

	r := NewRingTracer(4, LevelPhase)
	h := StartHeartbeat(r, 1000000)
	require.NotNil(t, h)
	h.Stop()
	h.Stop()
}

func TestErrorLevelKeepsPassesInRing(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelError, FormatText)
	ring := NewRingTracer(8, LevelError)
	m := NewMultiTracer(LevelError, stream, ring)

	Begin(m, ScopePass, "parse", 0).End("")
	Begin(m, ScopeModule, "lower:main", 0).End("")

	assert.Empty(t, buf.String())
	assert.Len(t, ring.Snapshot(), 2)
}
