package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClosedSentinel marks a closed day in an hours string.
const ClosedSentinel = "Stängt"

// SwedishDays is the fixed display week, Sunday-first to line up with
// time.Weekday values.
var SwedishDays = [7]string{
	"Söndag",
	"Måndag",
	"Tisdag",
	"Onsdag",
	"Torsdag",
	"Fredag",
	"Lördag",
}

// OpeningHoursGroup is a set of weekday names sharing identical hours. Groups
// are keyed by the exact hours string and need not be contiguous in the week;
// display uses the first and last day as given.
type OpeningHoursGroup struct {
	Days  []string `json:"days"`
	Hours string   `json:"hours"`
}

// WeeklyHourRow is one raw weekday row from the content store.
type WeeklyHourRow struct {
	Day    string
	Closed bool
	Open   string
	Close  string
}

// GroupWeeklyHours collapses weekday rows into groups with identical hours
// strings, preserving first-seen order of the hours keys.
func GroupWeeklyHours(rows []WeeklyHourRow) []OpeningHoursGroup {
	if len(rows) == 0 {
		return nil
	}

	byHours := make(map[string]int)
	var groups []OpeningHoursGroup

	for _, row := range rows {
		key := ClosedSentinel
		if !row.Closed {
			key = fmt.Sprintf("%s-%s", row.Open, row.Close)
		}

		if idx, ok := byHours[key]; ok {
			groups[idx].Days = append(groups[idx].Days, row.Day)
			continue
		}
		byHours[key] = len(groups)
		groups = append(groups, OpeningHoursGroup{
			Days:  []string{row.Day},
			Hours: key,
		})
	}

	return groups
}

// FormatDayRange renders a group's days as a contiguous range using the
// first and last entry as given.
func FormatDayRange(days []string) string {
	if len(days) == 0 {
		return ""
	}
	if len(days) == 1 {
		return days[0]
	}
	return fmt.Sprintf("%s - %s", days[0], days[len(days)-1])
}

// FormatHours normalizes "10:00-18:00" to "10:00 - 18:00".
func FormatHours(hours string) string {
	if hours == "" || hours == ClosedSentinel {
		return ClosedSentinel
	}
	parts := strings.SplitN(hours, "-", 2)
	if len(parts) != 2 {
		return ClosedSentinel
	}
	return fmt.Sprintf("%s - %s", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
}

type StatusKind string

const (
	StatusOpen        StatusKind = "open-time"
	StatusClosingSoon StatusKind = "closing-soon-time"
	StatusClosed      StatusKind = "closed-time"
)

// StatusText maps status kinds to their display labels.
var StatusText = map[StatusKind]string{
	StatusOpen:        "Öppet",
	StatusClosingSoon: "Stänger snart",
	StatusClosed:      ClosedSentinel,
}

// Status is the computed open/closed state for "now".
type Status struct {
	Kind  StatusKind `json:"kind"`
	Label string     `json:"label"`
}

// closingSoonWindow is how close to closing a service counts as closing soon.
const closingSoonWindow = 30 * time.Minute

// TodayStatus derives the current open/closed status from grouped hours.
// When today is closed it looks forward through the week for the next open
// day and reports its opening time.
func TodayStatus(groups []OpeningHoursGroup, now time.Time) Status {
	valid := validGroups(groups)
	todayIdx := int(now.Weekday())
	today := findDay(valid, SwedishDays[todayIdx])

	if today == nil || today.Hours == ClosedSentinel {
		return nextOpening(valid, todayIdx)
	}

	open, close, ok := splitHours(today.Hours)
	if !ok {
		return Status{Kind: StatusClosed, Label: ClosedSentinel}
	}

	openAt, okOpen := atClock(now, open)
	closeAt, okClose := atClock(now, close)
	if !okOpen || !okClose {
		return Status{Kind: StatusClosed, Label: ClosedSentinel}
	}

	minsToClose := int(closeAt.Sub(now).Round(time.Minute) / time.Minute)

	switch {
	case now.Before(openAt):
		return Status{Kind: StatusClosed, Label: "Öppnar " + open}
	case minsToClose <= 0:
		return Status{Kind: StatusClosed, Label: ClosedSentinel}
	case closeAt.Sub(now) <= closingSoonWindow:
		return Status{Kind: StatusClosingSoon, Label: close}
	default:
		return Status{Kind: StatusOpen, Label: "Stänger " + close}
	}
}

func validGroups(groups []OpeningHoursGroup) []OpeningHoursGroup {
	var valid []OpeningHoursGroup
	for _, g := range groups {
		hours := strings.TrimSpace(g.Hours)
		if hours == "" || hours == "-" {
			continue
		}
		hasDay := false
		for _, d := range g.Days {
			if strings.TrimSpace(d) != "" {
				hasDay = true
				break
			}
		}
		if hasDay {
			valid = append(valid, g)
		}
	}
	return valid
}

func findDay(groups []OpeningHoursGroup, day string) *OpeningHoursGroup {
	for i := range groups {
		for _, d := range groups[i].Days {
			if d == day {
				return &groups[i]
			}
		}
	}
	return nil
}

func nextOpening(valid []OpeningHoursGroup, todayIdx int) Status {
	for i := 1; i <= 7; i++ {
		day := SwedishDays[(todayIdx+i)%7]
		if g := findDay(valid, day); g != nil && g.Hours != ClosedSentinel {
			if open, _, ok := splitHours(g.Hours); ok {
				return Status{Kind: StatusClosed, Label: "Öppnar " + open}
			}
		}
	}
	return Status{Kind: StatusClosed, Label: ClosedSentinel}
}

func splitHours(hours string) (open, close string, ok bool) {
	parts := strings.SplitN(hours, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	open = strings.TrimSpace(parts[0])
	close = strings.TrimSpace(parts[1])
	return open, close, open != "" && close != ""
}

// atClock places an "HH:MM" clock value on now's date.
func atClock(now time.Time, clock string) (time.Time, bool) {
	parts := strings.SplitN(clock, ":", 2)
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	m := 0
	if len(parts) == 2 {
		// Malformed minutes degrade to :00, matching the lenient upstream parse.
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location()), true
}
