package model

// Event is a single named reminder. Date is kept in its canonical
// YYYY-MM-DD text form; valid dates compare chronologically as strings.
type Event struct {
	Name string // uniqueness key, case-sensitive
	Date string
	Note string // empty means "no note"
}

// HasNote reports whether the event carries a note worth rendering.
func (e Event) HasNote() bool {
	return e.Note != ""
}

// Entry is a read-only view of an Event at a given position in the
// schedule. Rank is 1-based.
type Entry struct {
	Rank int
	Event
}
