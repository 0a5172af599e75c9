package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"eventreminder/internal/model"
)

var (
	// ErrDuplicateName is returned by Add when an event with the same name
	// is already stored.
	ErrDuplicateName = errors.New("event with this name already exists")
	// ErrInvalidDate is returned by Add and Edit when the date fails
	// IsValidDate.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrNotFound is returned when no stored event has the requested name.
	ErrNotFound = errors.New("event not found")
)

// EventStore keeps events ordered by date ascending. Events sharing a date
// keep the order in which they were inserted (or last repositioned by Edit).
//
// The store owns its records: every read returns copies. It is not safe for
// concurrent use.
type EventStore struct {
	events []model.Event
}

// New returns an empty EventStore.
func New() *EventStore {
	return &EventStore{}
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	return len(s.events)
}

// EventExists reports whether an event with exactly this name is stored.
func (s *EventStore) EventExists(name string) bool {
	return s.indexOf(name) >= 0
}

// Add stores a new event at its chronological position.
//
// The name is checked before the date: a duplicate name with a bad date
// reports ErrDuplicateName.
func (s *EventStore) Add(name, date, note string) error {
	if s.EventExists(name) {
		return fmt.Errorf("add %q: %w", name, ErrDuplicateName)
	}
	if !IsValidDate(date) {
		return fmt.Errorf("add %q: %w", name, ErrInvalidDate)
	}
	s.insert(model.Event{Name: name, Date: date, Note: note})
	return nil
}

// Remove deletes the event with the given name. The order of the remaining
// events is unchanged.
func (s *EventStore) Remove(name string) error {
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", name, ErrNotFound)
	}
	s.unlink(i)
	return nil
}

// Search returns a copy of the event with the given name.
func (s *EventStore) Search(name string) (model.Event, bool) {
	i := s.indexOf(name)
	if i < 0 {
		return model.Event{}, false
	}
	return s.events[i], true
}

// Edit replaces the date and note of the named event and moves it to the
// position its new date calls for. On any error the event is left as it was.
func (s *EventStore) Edit(name, newDate, newNote string) error {
	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("edit %q: %w", name, ErrNotFound)
	}
	if !IsValidDate(newDate) {
		return fmt.Errorf("edit %q: %w", name, ErrInvalidDate)
	}

	ev := s.unlink(i)
	ev.Date = newDate
	ev.Note = newNote
	s.insert(ev)
	return nil
}

// ListAll returns the schedule front to back with 1-based ranks. The second
// return value is false when the store is empty.
func (s *EventStore) ListAll() ([]model.Entry, bool) {
	if len(s.events) == 0 {
		return nil, false
	}
	out := make([]model.Entry, len(s.events))
	for i, ev := range s.events {
		out[i] = model.Entry{Rank: i + 1, Event: ev}
	}
	return out, true
}

// Reset releases every stored event.
func (s *EventStore) Reset() {
	clear(s.events)
	s.events = s.events[:0]
}

func (s *EventStore) indexOf(name string) int {
	for i := range s.events {
		if s.events[i].Name == name {
			return i
		}
	}
	return -1
}

// insert places ev before the first event dated strictly later, i.e. after
// every event sharing its date.
func (s *EventStore) insert(ev model.Event) {
	pos := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Date > ev.Date
	})
	s.events = slices.Insert(s.events, pos, ev)
}

// unlink removes and returns the event at index i.
func (s *EventStore) unlink(i int) model.Event {
	ev := s.events[i]
	s.events = slices.Delete(s.events, i, i+1)
	return ev
}
