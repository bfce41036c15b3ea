// Package calendar pins every event timestamp to one fixed local calendar.
// Event times are civil: the wall clock the author typed, interpreted in the
// configured zone and never converted.
package calendar

import (
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
)

const DisplayLayout = "02.01.2006 15:04"

var inputLayouts = []string{
	"02.01.2006 15:04",
	"02.01.2006 15.04",
}

var ErrBadFormat = errors.New("unrecognised date-time format")

type Calendar struct {
	loc   *time.Location
	clock clockwork.Clock
}

func New(loc *time.Location, clock clockwork.Clock) *Calendar {
	return &Calendar{loc: loc, clock: clock}
}

// NewFromConfig loads the configured zone, falling back to the host zone.
func NewFromConfig(cfg *config.Config, log logger.Logger) *Calendar {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.Local
		log.Warn("Failed to load timezone, using local timezone", "timezone", cfg.App.Timezone, "error", err)
	}
	return New(loc, clockwork.NewRealClock())
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now is the current wall clock in the calendar zone.
func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// Civil re-reads the wall clock of t as a time in the calendar zone. Values
// loaded from a timestamp-without-time-zone column come back as UTC and need
// this before being compared with Now.
func (c *Calendar) Civil(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.loc)
}

// Parse accepts "DD.MM.YYYY HH:MM" and "DD.MM.YYYY HH.MM".
func (c *Calendar) Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, text, c.loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadFormat
}

func (c *Calendar) Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return c.Civil(t).Format(DisplayLayout)
}
