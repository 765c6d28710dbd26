package replacer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUReplacerEvictsLeastRecentlyUsed(t *testing.T) {
	r := NewLRUReplacer(3)
	r.Unpin(1)
	r.Unpin(2)
	r.Unpin(3)
	require.Equal(t, 3, r.Size())

	victim, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(1), victim)

	// Touching 2 again should push it to the back.
	r.Pin(2)
	r.Unpin(2)

	victim, ok = r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(3), victim)

	victim, ok = r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(2), victim)

	_, ok = r.Victim()
	require.False(t, ok)
}

func TestLRUReplacerPinRemovesCandidate(t *testing.T) {
	r := NewLRUReplacer(1)
	r.Unpin(1)
	r.Pin(1)
	require.Equal(t, 0, r.Size())
	_, ok := r.Victim()
	require.False(t, ok)
}

func TestLRUReplacerUnpinRefusedPastCapacity(t *testing.T) {
	r := NewLRUReplacer(2)
	r.Unpin(1)
	r.Unpin(2)
	r.Unpin(3) // replacer already holds its capacity of 2 frames; refused
	require.Equal(t, 2, r.Size())

	victim, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(1), victim)
}

func TestLRUKReplacerPrefersFewerAccessesAsInfiniteDistance(t *testing.T) {
	r := NewLRUKReplacer(2)

	// Frame 1 accessed twice, frame 2 accessed once: frame 2 has an
	// infinite backward-2-distance and must be evicted first.
	r.Pin(1)
	r.Pin(1)
	r.Unpin(1)

	r.Pin(2)
	r.Unpin(2)

	victim, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(2), victim)
}

func TestLRUKReplacerTiesAmongInfiniteBrokenByEarliestTimestamp(t *testing.T) {
	r := NewLRUKReplacer(2)

	r.Pin(1) // ts 0
	r.Unpin(1)

	r.Pin(2) // ts 1
	r.Unpin(2)

	// Both have exactly one access (< k), so both are +inf distance;
	// frame 1 was seen first and should be evicted first.
	victim, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(1), victim)
}

func TestLRUKReplacerFiniteDistanceLargerWins(t *testing.T) {
	r := NewLRUKReplacer(2)

	r.Pin(1) // ts0
	r.Pin(1) // ts1
	r.Unpin(1)

	r.Pin(2) // ts2
	r.Pin(2) // ts3
	r.Unpin(2)

	// frame1's backward-2-distance = curTS(4) - ts0(0) = 4
	// frame2's backward-2-distance = curTS(4) - ts2(2) = 2
	// frame1 has the larger distance, so it is less recently used.
	victim, ok := r.Victim()
	require.True(t, ok)
	require.Equal(t, FrameID(1), victim)
}
