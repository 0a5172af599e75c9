package store

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventreminder/internal/model"
)

func names(t *testing.T, s *EventStore) []string {
	t.Helper()
	entries, ok := s.ListAll()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func requireSorted(t *testing.T, s *EventStore) {
	t.Helper()
	entries, _ := s.ListAll()
	for i := 1; i < len(entries); i++ {
		require.LessOrEqual(t, entries[i-1].Date, entries[i].Date, "entries %d and %d out of order", i-1, i)
	}
}

func TestAdd_OrdersByDate(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("b", "2024-06-10", ""))
	require.NoError(t, s.Add("c", "2024-07-01", ""))
	require.NoError(t, s.Add("a", "2024-01-15", ""))
	require.NoError(t, s.Add("mid", "2024-06-20", ""))

	assert.Equal(t, []string{"a", "b", "mid", "c"}, names(t, s))
	assert.Equal(t, 4, s.Len())
}

func TestAdd_TieBreakKeepsInsertionOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("B", "2024-05-01", ""))
	require.NoError(t, s.Add("A", "2024-05-01", ""))
	assert.Equal(t, []string{"B", "A"}, names(t, s))

	require.NoError(t, s.Add("early", "2024-04-30", ""))
	require.NoError(t, s.Add("C", "2024-05-01", ""))
	assert.Equal(t, []string{"early", "B", "A", "C"}, names(t, s))
}

func TestAdd_DuplicateName(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("Standup", "2024-06-10", "daily"))

	err := s.Add("Standup", "2024-07-01", "")
	require.ErrorIs(t, err, ErrDuplicateName)

	ev, ok := s.Search("Standup")
	require.True(t, ok)
	assert.Equal(t, model.Event{Name: "Standup", Date: "2024-06-10", Note: "daily"}, ev)
	assert.Equal(t, 1, s.Len())
}

func TestAdd_DuplicateCheckedBeforeDate(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("x", "2024-06-10", ""))

	err := s.Add("x", "not-a-date", "")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.NotErrorIs(t, err, ErrInvalidDate)
}

func TestAdd_NamesAreCaseSensitive(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("launch", "2024-06-10", ""))
	require.NoError(t, s.Add("Launch", "2024-06-10", ""))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.EventExists("launch"))
	assert.False(t, s.EventExists("LAUNCH"))
}

func TestAdd_InvalidDate(t *testing.T) {
	s := New()
	err := s.Add("x", "2023-06-10", "")
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.EventExists("x"))
}

func TestRemove(t *testing.T) {
	s := New()
	for i, d := range []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01"} {
		require.NoError(t, s.Add(fmt.Sprintf("e%d", i), d, ""))
	}

	require.NoError(t, s.Remove("e0"))
	assert.Equal(t, []string{"e1", "e2", "e3"}, names(t, s))

	require.NoError(t, s.Remove("e3"))
	assert.Equal(t, []string{"e1", "e2"}, names(t, s))

	require.NoError(t, s.Remove("e1"))
	require.NoError(t, s.Remove("e2"))
	_, ok := s.ListAll()
	assert.False(t, ok)

	// The store keeps working after being emptied.
	require.NoError(t, s.Add("again", "2024-05-01", ""))
	assert.Equal(t, []string{"again"}, names(t, s))
}

func TestRemove_NotFound(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Remove("ghost"), ErrNotFound)

	require.NoError(t, s.Add("real", "2024-05-01", ""))
	assert.ErrorIs(t, s.Remove("ghost"), ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestSearch(t *testing.T) {
	s := New()
	_, ok := s.Search("anything")
	assert.False(t, ok)

	require.NoError(t, s.Add("Launch", "2024-06-05", "ship it"))
	ev, ok := s.Search("Launch")
	require.True(t, ok)
	assert.Equal(t, "2024-06-05", ev.Date)
	assert.Equal(t, "ship it", ev.Note)

	// The returned value is a copy.
	ev.Note = "changed"
	again, _ := s.Search("Launch")
	assert.Equal(t, "ship it", again.Note)
}

func TestEdit_Repositions(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("a", "2024-01-01", ""))
	require.NoError(t, s.Add("b", "2024-02-01", ""))
	require.NoError(t, s.Add("c", "2024-03-01", ""))

	require.NoError(t, s.Edit("a", "2024-12-01", "later"))
	assert.Equal(t, []string{"b", "c", "a"}, names(t, s))
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Edit("c", "2024-01-15", ""))
	assert.Equal(t, []string{"c", "b", "a"}, names(t, s))

	ev, ok := s.Search("a")
	require.True(t, ok)
	assert.Equal(t, model.Event{Name: "a", Date: "2024-12-01", Note: "later"}, ev)
}

func TestEdit_SameDateMovesBehindTies(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("first", "2024-05-01", ""))
	require.NoError(t, s.Add("second", "2024-05-01", ""))

	require.NoError(t, s.Edit("first", "2024-05-01", "touched"))
	assert.Equal(t, []string{"second", "first"}, names(t, s))
}

func TestEdit_InvalidDateIsNoop(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("a", "2024-01-01", "keep"))
	require.NoError(t, s.Add("b", "2024-02-01", ""))

	err := s.Edit("a", "2024-13-01", "lost")
	require.ErrorIs(t, err, ErrInvalidDate)

	ev, ok := s.Search("a")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", ev.Date)
	assert.Equal(t, "keep", ev.Note)
	assert.Equal(t, []string{"a", "b"}, names(t, s))
}

func TestEdit_NotFound(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Edit("ghost", "2024-01-01", ""), ErrNotFound)

	require.NoError(t, s.Add("a", "2024-01-01", ""))
	assert.ErrorIs(t, s.Edit("ghost", "bad", ""), ErrNotFound)
}

func TestListAll_Ranks(t *testing.T) {
	s := New()
	entries, ok := s.ListAll()
	assert.False(t, ok)
	assert.Empty(t, entries)

	require.NoError(t, s.Add("x", "2024-03-01", ""))
	require.NoError(t, s.Add("y", "2024-01-01", "n"))

	entries, ok = s.ListAll()
	require.True(t, ok)
	assert.Equal(t, []model.Entry{
		{Rank: 1, Event: model.Event{Name: "y", Date: "2024-01-01", Note: "n"}},
		{Rank: 2, Event: model.Event{Name: "x", Date: "2024-03-01"}},
	}, entries)
}

func TestReset(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("x", "2024-03-01", ""))
	require.NoError(t, s.Add("y", "2024-01-01", ""))

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.EventExists("x"))
	require.NoError(t, s.Add("x", "2024-03-01", ""))
}

func TestScenario(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("Standup", "2024-06-10", ""))
	require.NoError(t, s.Add("Launch", "2024-06-05", "ship it"))
	require.NoError(t, s.Add("Retro", "2024-06-10", ""))
	assert.Equal(t, []string{"Launch", "Standup", "Retro"}, names(t, s))

	require.NoError(t, s.Edit("Standup", "2024-06-01", "moved"))
	entries, ok := s.ListAll()
	require.True(t, ok)
	assert.Equal(t, []model.Entry{
		{Rank: 1, Event: model.Event{Name: "Standup", Date: "2024-06-01", Note: "moved"}},
		{Rank: 2, Event: model.Event{Name: "Launch", Date: "2024-06-05", Note: "ship it"}},
		{Rank: 3, Event: model.Event{Name: "Retro", Date: "2024-06-10"}},
	}, entries)

	require.NoError(t, s.Remove("Launch"))
	assert.Equal(t, []string{"Standup", "Retro"}, names(t, s))

	assert.ErrorIs(t, s.Add("Standup", "2024-07-01", ""), ErrDuplicateName)
}

// TestRandomOperations applies a long random mix of operations and checks
// ordering, uniqueness and size after each step.
func TestRandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	s := New()
	live := map[string]bool{}

	randDate := func() string {
		return fmt.Sprintf("%04d-%02d-%02d", 2024+rnd.Intn(2), 1+rnd.Intn(12), 1+rnd.Intn(31))
	}

	for step := 0; step < 2000; step++ {
		name := fmt.Sprintf("ev%d", rnd.Intn(40))
		switch rnd.Intn(3) {
		case 0:
			err := s.Add(name, randDate(), "")
			if live[name] {
				require.ErrorIs(t, err, ErrDuplicateName)
			} else {
				require.NoError(t, err)
				live[name] = true
			}
		case 1:
			err := s.Remove(name)
			if live[name] {
				require.NoError(t, err)
				delete(live, name)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		case 2:
			err := s.Edit(name, randDate(), "edited")
			if live[name] {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		}

		require.Equal(t, len(live), s.Len())
		requireSorted(t, s)

		seen := map[string]bool{}
		for _, n := range names(t, s) {
			require.False(t, seen[n], "duplicate name %q", n)
			seen[n] = true
		}
	}
}
