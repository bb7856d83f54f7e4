package playback

import (
	"testing"

	"github.com/mkeller/aria/internal/catalog"
)

func queueOf(ids ...int64) *Queue {
	q := &Queue{}
	for _, id := range ids {
		q.Append(track(id))
	}
	return q
}

func assertIDs(t *testing.T, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQueueInsertAtClampsBounds(t *testing.T) {
	q := queueOf(1, 2)
	q.InsertAt(99, []catalog.AudioTrack{track(3)})
	assertIDs(t, q.IDs(), []int64{1, 2, 3})

	q.InsertAt(-5, []catalog.AudioTrack{track(4)})
	assertIDs(t, q.IDs(), []int64{4, 1, 2, 3})
}

func TestQueueDropThrough(t *testing.T) {
	q := queueOf(1, 2, 3, 4)
	got, ok := q.DropThrough(2)
	if !ok || got.ID != 3 {
		t.Fatalf("got %v ok=%v, want track 3", got, ok)
	}
	assertIDs(t, q.IDs(), []int64{4})

	if _, ok := q.DropThrough(5); ok {
		t.Error("out-of-range drop reported ok")
	}
}

func TestQueueRemoveIndicesDescending(t *testing.T) {
	q := queueOf(1, 2, 3, 4)
	// Ascending input must not shift later removals.
	q.RemoveIndices([]int{0, 2})
	assertIDs(t, q.IDs(), []int64{2, 4})
}

func TestQueueReorder(t *testing.T) {
	q := queueOf(1, 2, 3)
	if err := q.Reorder([]int64{3, 1, 2}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	assertIDs(t, q.IDs(), []int64{3, 1, 2})

	if err := q.Reorder([]int64{3, 1}); err == nil {
		t.Error("short permutation accepted")
	}
	if err := q.Reorder([]int64{3, 1, 9}); err == nil {
		t.Error("unknown id accepted")
	}
}

func TestHistoryRemoveIndices(t *testing.T) {
	h := &History{}
	h.Seed([]catalog.AudioTrack{track(1), track(2), track(3)})
	h.RemoveIndices([]int{0, 2})
	assertIDs(t, h.IDs(), []int64{2})
}
