package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendFinalJoinsSegments(t *testing.T) {
	b := NewBuffer(0)
	b.AppendFinal("hello")
	b.AppendFinal("  world  ")
	require.Equal(t, "hello world", b.Text())
}

func TestAppendFinalIgnoresBlankSegments(t *testing.T) {
	b := NewBuffer(0)
	b.AppendFinal("hello")
	b.AppendFinal("   ")
	b.AppendFinal("")
	require.Equal(t, "hello", b.Text())
}

func TestAppendFinalSlidesWindowOldestFirst(t *testing.T) {
	b := NewBuffer(10)
	b.AppendFinal("abcdefgh")
	b.AppendFinal("xyz")
	require.Equal(t, "cdefgh xyz", b.Text())
	require.Len(t, b.Text(), 10)
}

func TestSetTextOverridesCaptureContent(t *testing.T) {
	b := NewBuffer(0)
	b.AppendFinal("captured speech")
	b.SetText("typed instead")
	require.Equal(t, "typed instead", b.Text())

	b.AppendFinal("more speech")
	require.Equal(t, "typed instead more speech", b.Text())
}

func TestSetTextAppliesRetentionCap(t *testing.T) {
	b := NewBuffer(5)
	b.SetText(strings.Repeat("a", 4) + "zzzzz")
	require.Equal(t, "zzzzz", b.Text())
}

func TestSnapshotDecouplesFromLaterEdits(t *testing.T) {
	b := NewBuffer(0)
	b.SetText("  before submit  ")
	snap := b.Snapshot()
	require.Equal(t, "before submit", snap)

	b.AppendFinal("after submit")
	require.Equal(t, "before submit", snap)
}

func TestEmptyAndReset(t *testing.T) {
	b := NewBuffer(0)
	require.True(t, b.Empty())

	b.SetText("   \t ")
	require.True(t, b.Empty())

	b.SetText("x")
	require.False(t, b.Empty())

	b.Reset()
	require.True(t, b.Empty())
	require.Equal(t, "", b.Text())
}

func TestClampTailHandlesMultibyteRunes(t *testing.T) {
	b := NewBuffer(3)
	b.SetText("héllö")
	require.Equal(t, "llö", b.Text())
}
