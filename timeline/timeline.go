// Package timeline builds display-ready message sequences for the chat view.
// Handles ordering, day bucketing, and newest-first presentation.
// Does not fetch data or interact with the terminal directly.
package timeline

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"group-chat/domain"
)

// LocalOffset is the fixed offset added to UTC instants before day bucketing
// and time-of-day labels (IST, +5:30). This is a deliberate simplification:
// replacing it with a real timezone lookup only touches ToLocal, never the
// bucketing below.
const LocalOffset = 5*time.Hour + 30*time.Minute

const (
	dayFormat   = "2006-01-02"
	labelFormat = "2 Jan 2006"
	clockFormat = "15:04"
)

type ItemKind int

const (
	KindDateSeparator ItemKind = iota
	KindMessage
)

// Item is a transient render-only unit: either a date separator or a
// message bubble. Separators carry Date and Label; messages carry the
// original record plus a precomputed local time-of-day string.
type Item struct {
	Kind      ItemKind
	Date      string // YYYY-MM-DD in normalized local time (separators)
	Label     string // Today / Yesterday / "2 Jan 2006" (separators)
	Message   domain.Message
	LocalTime string // HH:MM in normalized local time (messages)
}

// Sequence is the bucketed ascending output of Build together with the
// number of records skipped for malformed timestamps.
type Sequence struct {
	Items   []Item
	Skipped int
}

// ToLocal maps a UTC instant to the fixed local offset.
func ToLocal(t time.Time) time.Time {
	return t.UTC().Add(LocalOffset)
}

// Build converts a flat message collection into a date-bucketed sequence in
// ascending chronological order. It is pure and deterministic given
// (messages, now) and holds no state across calls.
//
// Messages whose CreatedAt cannot be parsed are skipped, counted, and logged;
// they never abort the remaining records and never open a separator bucket.
func Build(messages []domain.Message, now time.Time, log *slog.Logger) Sequence {
	type timed struct {
		msg domain.Message
		at  time.Time
	}

	parsed := make([]timed, 0, len(messages))
	skipped := 0
	for _, msg := range messages {
		at, err := time.Parse(time.RFC3339, msg.CreatedAt)
		if err != nil {
			skipped++
			log.Warn(fmt.Sprintf("Skipping message %d with malformed timestamp %q", msg.ID, msg.CreatedAt))
			continue
		}
		parsed = append(parsed, timed{msg: msg, at: at})
	}

	// Stable: identical timestamps keep their input relative order.
	// Ordering uses the original instant, not the offset one.
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].at.Before(parsed[j].at)
	})

	var items []Item
	lastDay := ""
	for _, p := range parsed {
		local := ToLocal(p.at)
		day := local.Format(dayFormat)
		if day != lastDay {
			items = append(items, Item{
				Kind:  KindDateSeparator,
				Date:  day,
				Label: labelFor(day, now),
			})
			lastDay = day
		}
		items = append(items, Item{
			Kind:      KindMessage,
			Message:   p.msg,
			LocalTime: local.Format(clockFormat),
		})
	}

	return Sequence{Items: items, Skipped: skipped}
}

// Render reverses a bucketed ascending sequence so the most recent content
// comes first, for a bottom-anchored (inverted) list view. The input slice
// is left untouched.
func Render(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	reversed := make([]Item, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}
	return reversed
}

func labelFor(day string, now time.Time) string {
	localNow := ToLocal(now)
	switch day {
	case localNow.Format(dayFormat):
		return "Today"
	case localNow.AddDate(0, 0, -1).Format(dayFormat):
		return "Yesterday"
	}
	date, err := time.Parse(dayFormat, day)
	if err != nil {
		return day
	}
	return date.Format(labelFormat)
}
