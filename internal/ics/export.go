package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventreminder/internal/log"
	"eventreminder/internal/model"
	"eventreminder/internal/store"
)

const productID = "-//eventreminder//Event Reminder//EN"

// Options controls calendar-level properties of an export.
type Options struct {
	// CalendarName is written as X-WR-CALNAME. Empty omits it.
	CalendarName string
	// Now is used for DTSTAMP. Zero means time.Now().
	Now time.Time
}

// BuildCalendar converts the schedule into an iCalendar object with one
// all-day VEVENT per entry, in schedule order.
func BuildCalendar(entries []model.Entry, opts Options) (*ical.Calendar, error) {
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.CalendarName != "" {
		cal.SetXWRCalName(opts.CalendarName)
	}

	for _, e := range entries {
		day, err := dayOf(e.Date)
		if err != nil {
			return nil, err
		}

		ve := cal.AddEvent(eventUID(e.Name))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Name)
		if e.HasNote() {
			ve.SetDescription(e.Note)
		}
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	return cal, nil
}

// Write serializes the schedule as ICS to w.
func Write(w io.Writer, entries []model.Entry, opts Options) error {
	cal, err := BuildCalendar(entries, opts)
	if err != nil {
		return err
	}
	if err := cal.SerializeTo(w); err != nil {
		return err
	}
	appLog.Debug("ics export written", "event_count", len(entries))
	return nil
}

// eventUID is stable per event name so repeated exports can be re-imported
// by calendar clients without creating duplicates.
func eventUID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:8]) + "@eventreminder"
}

// dayOf turns a stored YYYY-MM-DD date into a UTC midnight. Days past the
// end of the month roll over (2024-02-31 becomes 2024-03-02), matching the
// store's lenient validation.
func dayOf(date string) (time.Time, error) {
	y, m, d, ok := store.ParseDate(date)
	if !ok {
		return time.Time{}, errors.New("ics: invalid date " + strconv.Quote(date))
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		appLog.Debug("ics export: day rolled over", "date", date, "exported", t.Format(time.DateOnly))
	}
	return t, nil
}
