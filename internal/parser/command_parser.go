package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/times/internal/models"
	"github.com/balkashynov/times/internal/timelog"
)

// Back-reference grammars, tried in order.
// Hours run to 29 so late-night notation like "25:30" works: it resolves
// past midnight and the most-recent-occurrence rule pulls it back a day.
var (
	backClockRegex   = regexp.MustCompile(`^(.+)\s+back\s+([0-2]?[0-9]):([0-5]?[0-9])$`)
	backMinutesRegex = regexp.MustCompile(`^(.+)\s+back\s+([0-9]+)$`)
)

// Parse turns the free-text argument of a slash command into a Command.
// Two "back" suffix forms are recognized:
//   - "write docs back 9:00"  -> most recent past occurrence of 9:00
//   - "write docs back 30"    -> 30 minutes before now
//
// Anything else, including malformed suffixes, is taken verbatim as the
// task name. Parse never fails.
func Parse(text string, now time.Time) models.Command {
	name := strings.TrimSpace(text)

	if matched := backClockRegex.FindStringSubmatch(name); matched != nil {
		hour, _ := strconv.Atoi(matched[2])
		minute, _ := strconv.Atoi(matched[3])
		back := latestOccurrence(hour, minute, now)
		return models.Command{TaskName: matched[1], BackDate: &back}
	}

	if matched := backMinutesRegex.FindStringSubmatch(name); matched != nil {
		minutes, _ := strconv.Atoi(matched[2])
		back := now.Add(-time.Duration(minutes) * time.Minute)
		return models.Command{TaskName: matched[1], BackDate: &back}
	}

	return models.Command{TaskName: name}
}

// latestOccurrence resolves a wall-clock time in the display zone to the
// most recent instant it occurred. A time-of-day that has not yet happened
// today resolves to yesterday's occurrence.
func latestOccurrence(hour, minute int, now time.Time) time.Time {
	day := timelog.StartOfDay(now)
	target := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	if target.After(now) {
		target = target.AddDate(0, 0, -1)
	}
	return target
}
