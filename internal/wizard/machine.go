// Package wizard collects a new post across successive user events.
package wizard

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/samber/lo"
)

type EventKind int

const (
	EventStart EventKind = iota
	EventCancel
	EventToggleCity
	EventSelectAllCities
	EventConfirmCities
	EventToggleCategory
	EventConfirmCategories
	EventText
	EventSkip
	EventImage
)

type Event struct {
	Kind       EventKind
	Text       string
	City       string
	CategoryID int64
	// MediaRef is the blob reference of an uploaded image.
	MediaRef string
}

// Effect tells the caller what to show after a step.
type Effect int

const (
	// EffectIgnored means the event does not apply to the current step.
	EffectIgnored Effect = iota
	// EffectPrompt asks for the input of the new state.
	EffectPrompt
	// EffectReprompt rejects the input; the state is unchanged.
	EffectReprompt
	// EffectRefreshMenu redraws a selection keyboard after a toggle.
	EffectRefreshMenu
	// EffectCommit means every step is done and the post can be created.
	EffectCommit
	// EffectAbort means the final re-check found a required field missing.
	EffectAbort
	EffectCancelled

	// The effects below are reported by Service only.

	// EffectCommitted means the post was created and handed to moderation.
	EffectCommitted
	// EffectFailed means an outside dependency failed; Err says which.
	EffectFailed
)

type Outcome struct {
	Session domain.WizardSession
	Effect  Effect
	// Err is a *ValidationError when Effect is EffectReprompt.
	Err error
}

// ValidationError rejects one input without losing earlier steps.
type ValidationError struct {
	Step   domain.WizardState
	Reason string
	// Now and Earliest are set when an event time is too soon.
	Now      time.Time
	Earliest time.Time
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}

// Machine holds the settings of the flow. Step itself has no side effects.
type Machine struct {
	cities   []string
	minLead  time.Duration
	calendar *calendar.Calendar
}

func NewMachine(cities []string, minLead time.Duration, cal *calendar.Calendar) *Machine {
	return &Machine{cities: cities, minLead: minLead, calendar: cal}
}

func (m *Machine) Cities() []string {
	return m.cities
}

// Step applies ev to s at time now.
func (m *Machine) Step(s domain.WizardSession, ev Event, now time.Time) Outcome {
	switch ev.Kind {
	case EventStart:
		return Outcome{
			Session: domain.WizardSession{UserID: s.UserID, ChatID: s.ChatID, State: domain.StateSelectingCity, UpdatedAt: now},
			Effect:  EffectPrompt,
		}
	case EventCancel:
		s.State = domain.StateCancelled
		return Outcome{Session: s, Effect: EffectCancelled}
	}

	if s.State.Terminal() || s.State == domain.StateIdle || s.State == "" {
		return Outcome{Session: s, Effect: EffectIgnored}
	}

	out := m.step(s, ev, now)
	if out.Effect != EffectIgnored {
		out.Session.UpdatedAt = now
	}
	return out
}

func (m *Machine) step(s domain.WizardSession, ev Event, now time.Time) Outcome {
	switch s.State {
	case domain.StateSelectingCity:
		return m.selectCity(s, ev)
	case domain.StateSelectingCategories:
		return selectCategory(s, ev)
	case domain.StateAwaitingTitle:
		return textStep(s, ev, domain.MaxTitleLength, domain.StateAwaitingContent, func(s *domain.WizardSession, v string) { s.Title = v })
	case domain.StateAwaitingContent:
		return textStep(s, ev, domain.MaxContentLength, domain.StateAwaitingURL, func(s *domain.WizardSession, v string) { s.Content = v })
	case domain.StateAwaitingURL:
		return urlStep(s, ev)
	case domain.StateAwaitingEventAt:
		return m.eventAtStep(s, ev, now)
	case domain.StateAwaitingAddress:
		if ev.Kind == EventSkip {
			s.Address = ""
			return advance(s, domain.StateAwaitingImage)
		}
		return textStep(s, ev, domain.MaxAddressLength, domain.StateAwaitingImage, func(s *domain.WizardSession, v string) { s.Address = v })
	case domain.StateAwaitingImage:
		return imageStep(s, ev)
	}
	return Outcome{Session: s, Effect: EffectIgnored}
}

func (m *Machine) selectCity(s domain.WizardSession, ev Event) Outcome {
	switch ev.Kind {
	case EventToggleCity:
		if !lo.Contains(m.cities, ev.City) {
			return Outcome{Session: s, Effect: EffectIgnored}
		}
		s.Cities = toggle(s.Cities, ev.City)
		return Outcome{Session: s, Effect: EffectRefreshMenu}
	case EventSelectAllCities:
		s.Cities = append([]string(nil), m.cities...)
		return Outcome{Session: s, Effect: EffectRefreshMenu}
	case EventConfirmCities:
		if len(s.Cities) == 0 {
			return reject(s, "select at least one city")
		}
		return advance(s, domain.StateSelectingCategories)
	case EventText, EventSkip, EventImage:
		return reject(s, "use the buttons to pick cities")
	}
	return Outcome{Session: s, Effect: EffectIgnored}
}

func selectCategory(s domain.WizardSession, ev Event) Outcome {
	switch ev.Kind {
	case EventToggleCategory:
		s.CategoryIDs = toggle(s.CategoryIDs, ev.CategoryID)
		return Outcome{Session: s, Effect: EffectRefreshMenu}
	case EventConfirmCategories:
		if len(s.CategoryIDs) == 0 {
			return reject(s, "select at least one category")
		}
		return advance(s, domain.StateAwaitingTitle)
	case EventText, EventSkip, EventImage:
		return reject(s, "use the buttons to pick categories")
	}
	return Outcome{Session: s, Effect: EffectIgnored}
}

func textStep(s domain.WizardSession, ev Event, limit int, next domain.WizardState, set func(*domain.WizardSession, string)) Outcome {
	if ev.Kind != EventText {
		return reject(s, "send a text message")
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return reject(s, "the text is empty")
	}
	if n := utf8.RuneCountInString(text); n > limit {
		return reject(s, fmt.Sprintf("the text is %d characters long, the limit is %d", n, limit))
	}

	set(&s, text)
	return advance(s, next)
}

func urlStep(s domain.WizardSession, ev Event) Outcome {
	switch ev.Kind {
	case EventSkip:
		s.URL = ""
		return advance(s, domain.StateAwaitingEventAt)
	case EventText:
		link := strings.TrimSpace(ev.Text)
		if !validURL(link) {
			return reject(s, "the link must start with http:// or https://")
		}
		s.URL = link
		return advance(s, domain.StateAwaitingEventAt)
	}
	return reject(s, "send a link or skip this step")
}

func validURL(link string) bool {
	lower := strings.ToLower(link)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	if strings.ContainsAny(link, " \t\n") {
		return false
	}
	u, err := url.Parse(link)
	return err == nil && u.Host != ""
}

// eventAtStep accepts only times strictly after now plus the minimum lead.
func (m *Machine) eventAtStep(s domain.WizardSession, ev Event, now time.Time) Outcome {
	if ev.Kind != EventText {
		return reject(s, "send the date and time of the event")
	}

	at, err := m.calendar.Parse(ev.Text)
	if err != nil {
		return reject(s, "use the format DD.MM.YYYY HH:MM")
	}

	now = now.In(m.calendar.Location())
	earliest := now.Add(m.minLead)
	if !at.After(earliest) {
		return Outcome{Session: s, Effect: EffectReprompt, Err: &ValidationError{
			Step:     s.State,
			Reason:   "the event must start later",
			Now:      now,
			Earliest: earliest,
		}}
	}

	s.EventAt = at
	return advance(s, domain.StateAwaitingAddress)
}

func imageStep(s domain.WizardSession, ev Event) Outcome {
	switch ev.Kind {
	case EventSkip:
		s.ImageID = ""
	case EventImage:
		if ev.MediaRef == "" {
			return reject(s, "the image could not be stored")
		}
		s.ImageID = ev.MediaRef
	default:
		return reject(s, "send an image or skip this step")
	}

	if !s.Draft().Complete() {
		return Outcome{Session: s, Effect: EffectAbort}
	}
	return Outcome{Session: s, Effect: EffectCommit}
}

func advance(s domain.WizardSession, next domain.WizardState) Outcome {
	s.State = next
	return Outcome{Session: s, Effect: EffectPrompt}
}

func reject(s domain.WizardSession, reason string) Outcome {
	return Outcome{Session: s, Effect: EffectReprompt, Err: &ValidationError{Step: s.State, Reason: reason}}
}

func toggle[T comparable](set []T, v T) []T {
	if lo.Contains(set, v) {
		return lo.Without(set, v)
	}
	return append(set, v)
}
