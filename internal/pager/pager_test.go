package pager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i)
	}
	return out
}

func TestTotalPagesNeverBelowOne(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 40))
	assert.Equal(t, 1, TotalPages(1, 40))
	assert.Equal(t, 1, TotalPages(40, 40))
	assert.Equal(t, 2, TotalPages(41, 40))
	assert.Equal(t, 3, TotalPages(100, 40))
	assert.Equal(t, 1, TotalPages(10, 0))
}

func TestSliceReturnsIdentitySubsequence(t *testing.T) {
	source := items(95)

	var reassembled []string
	for page := 1; page <= TotalPages(len(source), 40); page++ {
		visible, used := Slice(source, page, 40)
		require.Equal(t, page, used)
		reassembled = append(reassembled, visible...)
	}

	// Concatenating every page reproduces the source exactly: same items,
	// same order, no duplicates.
	assert.Equal(t, source, reassembled)
}

func TestSliceClampsOutOfRangePages(t *testing.T) {
	source := items(50)

	visible, page := Slice(source, 99, 40)
	assert.Equal(t, 2, page)
	assert.Len(t, visible, 10)

	visible, page = Slice(source, 0, 40)
	assert.Equal(t, 1, page)
	assert.Len(t, visible, 40)
}

func TestSliceEmptyCollection(t *testing.T) {
	visible, page := Slice([]string{}, 5, 40)
	assert.Equal(t, 1, page)
	assert.Empty(t, visible)
}

func TestPagerNextPrevStopAtBounds(t *testing.T) {
	p := New[string](40)
	p.SetItems(items(90)) // 3 pages

	p.Prev()
	assert.Equal(t, 1, p.PageIndex())

	p.Next()
	p.Next()
	assert.Equal(t, 3, p.PageIndex())
	p.Next()
	assert.Equal(t, 3, p.PageIndex())

	assert.Len(t, p.Page(), 10)
}

func TestPagerFilterResetsToFirstPage(t *testing.T) {
	p := New[string](40)
	p.SetItems(items(120))
	p.SetPage(3)
	require.Equal(t, 3, p.PageIndex())

	p.SetFilter(func(s string) bool { return s < "item-050" })
	assert.Equal(t, 1, p.PageIndex())
	assert.Equal(t, 50, p.FilteredCount())
	assert.Equal(t, 2, p.TotalPages())
}

func TestPagerReclampsWhenItemsShrink(t *testing.T) {
	p := New[string](40)
	p.SetItems(items(120))
	p.SetPage(3)

	p.SetItems(items(45))
	assert.Equal(t, 2, p.PageIndex())

	p.SetItems(items(5))
	assert.Equal(t, 1, p.PageIndex())
	assert.Len(t, p.Page(), 5)
}

func TestStateStoreScopesByTabAndView(t *testing.T) {
	store := NewStateStore()

	store.Put("tab-a", "feedback", ViewState{Page: 3, Filter: "Maria"})
	store.Put("tab-b", "feedback", ViewState{Page: 1, Filter: "todos"})

	state, ok := store.Get("tab-a", "feedback")
	require.True(t, ok)
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, "Maria", state.Filter)

	state, ok = store.Get("tab-b", "feedback")
	require.True(t, ok)
	assert.Equal(t, "todos", state.Filter)

	_, ok = store.Get("tab-a", "tickets")
	assert.False(t, ok)
}

func TestStateStoreDropTab(t *testing.T) {
	store := NewStateStore()
	store.Put("tab-a", "feedback", ViewState{Page: 2})
	store.Put("tab-a", "tickets", ViewState{Page: 4})
	store.Put("tab-ab", "feedback", ViewState{Page: 7})

	store.DropTab("tab-a")

	_, ok := store.Get("tab-a", "feedback")
	assert.False(t, ok)
	_, ok = store.Get("tab-a", "tickets")
	assert.False(t, ok)

	// A tab whose id merely shares a prefix keeps its state.
	state, ok := store.Get("tab-ab", "feedback")
	require.True(t, ok)
	assert.Equal(t, 7, state.Page)
}
