package wizard

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	msk     = time.FixedZone("MSK", 3*60*60)
	testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, msk)
)

func newTestMachine() *Machine {
	cal := calendar.New(msk, clockwork.NewFakeClockAt(testNow))
	return NewMachine([]string{"Moscow", "Saint Petersburg"}, 30*time.Minute, cal)
}

func text(s string) Event { return Event{Kind: EventText, Text: s} }

func at(state domain.WizardState) domain.WizardSession {
	return domain.WizardSession{UserID: 1, ChatID: 1, State: state}
}

func requireValidation(t *testing.T, out Outcome, state domain.WizardState) *ValidationError {
	t.Helper()
	require.Equal(t, EffectReprompt, out.Effect)
	assert.Equal(t, state, out.Session.State, "a rejected input never advances")
	var verr *ValidationError
	require.ErrorAs(t, out.Err, &verr)
	return verr
}

func TestStep_FullFlow(t *testing.T) {
	m := newTestMachine()
	s := domain.WizardSession{UserID: 1, ChatID: 1}

	steps := []struct {
		event  Event
		effect Effect
		state  domain.WizardState
	}{
		{Event{Kind: EventStart}, EffectPrompt, domain.StateSelectingCity},
		{Event{Kind: EventToggleCity, City: "Moscow"}, EffectRefreshMenu, domain.StateSelectingCity},
		{Event{Kind: EventConfirmCities}, EffectPrompt, domain.StateSelectingCategories},
		{Event{Kind: EventToggleCategory, CategoryID: 1}, EffectRefreshMenu, domain.StateSelectingCategories},
		{Event{Kind: EventConfirmCategories}, EffectPrompt, domain.StateAwaitingTitle},
		{text("  Concert  "), EffectPrompt, domain.StateAwaitingContent},
		{text("Live music"), EffectPrompt, domain.StateAwaitingURL},
		{Event{Kind: EventSkip}, EffectPrompt, domain.StateAwaitingEventAt},
		{text("18.10.2026 12:40"), EffectPrompt, domain.StateAwaitingAddress},
		{text("Hall 1"), EffectPrompt, domain.StateAwaitingImage},
		{Event{Kind: EventSkip}, EffectCommit, domain.StateAwaitingImage},
	}

	for i, step := range steps {
		out := m.Step(s, step.event, testNow)
		require.Equal(t, step.effect, out.Effect, "step %d", i)
		require.Equal(t, step.state, out.Session.State, "step %d", i)
		s = out.Session
	}

	draft := s.Draft()
	assert.Equal(t, "Concert", draft.Title)
	assert.Equal(t, "Live music", draft.Content)
	assert.Equal(t, []string{"Moscow"}, draft.Cities)
	assert.Equal(t, []int64{1}, draft.CategoryIDs)
	assert.Equal(t, "", draft.URL)
	assert.Equal(t, "Hall 1", draft.Address)
	assert.Equal(t, time.Date(2026, 10, 18, 12, 40, 0, 0, msk), draft.EventAt)
	assert.Equal(t, msk, draft.EventAt.Location())
}

func TestStep_EventTimeBoundary(t *testing.T) {
	m := newTestMachine()

	exact := m.Step(at(domain.StateAwaitingEventAt), text("18.10.2026 12:30"), testNow)
	verr := requireValidation(t, exact, domain.StateAwaitingEventAt)
	assert.Equal(t, testNow, verr.Now)
	assert.Equal(t, testNow.Add(30*time.Minute), verr.Earliest)

	past := m.Step(at(domain.StateAwaitingEventAt), text("17.10.2026 12:30"), testNow)
	requireValidation(t, past, domain.StateAwaitingEventAt)

	later := m.Step(at(domain.StateAwaitingEventAt), text("18.10.2026 12.31"), testNow)
	require.Equal(t, EffectPrompt, later.Effect)
	assert.Equal(t, domain.StateAwaitingAddress, later.Session.State)

	bad := m.Step(at(domain.StateAwaitingEventAt), text("tomorrow at noon"), testNow)
	requireValidation(t, bad, domain.StateAwaitingEventAt)
}

func TestStep_EventTimeUsesCalendarZone(t *testing.T) {
	m := newTestMachine()

	// 09:00 UTC is 12:00 in the calendar zone.
	utcNow := testNow.UTC()
	out := m.Step(at(domain.StateAwaitingEventAt), text("18.10.2026 12:20"), utcNow)
	verr := requireValidation(t, out, domain.StateAwaitingEventAt)
	assert.Equal(t, msk, verr.Now.Location())
	assert.Equal(t, "18.10.2026 12:30", verr.Earliest.Format(calendar.DisplayLayout))
}

func TestStep_TextLimits(t *testing.T) {
	m := newTestMachine()

	for _, tc := range []struct {
		state domain.WizardState
		limit int
		next  domain.WizardState
	}{
		{domain.StateAwaitingTitle, domain.MaxTitleLength, domain.StateAwaitingContent},
		{domain.StateAwaitingContent, domain.MaxContentLength, domain.StateAwaitingURL},
		{domain.StateAwaitingAddress, domain.MaxAddressLength, domain.StateAwaitingImage},
	} {
		t.Run(string(tc.state), func(t *testing.T) {
			s := at(tc.state)
			s.Title = "kept"

			tooLong := m.Step(s, text(strings.Repeat("я", tc.limit+1)), testNow)
			requireValidation(t, tooLong, tc.state)
			assert.Equal(t, "kept", tooLong.Session.Title, "earlier input survives a rejection")

			requireValidation(t, m.Step(s, text("   "), testNow), tc.state)

			ok := m.Step(s, text(strings.Repeat("я", tc.limit)), testNow)
			assert.Equal(t, EffectPrompt, ok.Effect)
			assert.Equal(t, tc.next, ok.Session.State)
		})
	}
}

func TestStep_URL(t *testing.T) {
	m := newTestMachine()

	for _, link := range []string{"example.com", "ftp://example.com", "https://", "http://exa mple.com"} {
		requireValidation(t, m.Step(at(domain.StateAwaitingURL), text(link), testNow), domain.StateAwaitingURL)
	}

	ok := m.Step(at(domain.StateAwaitingURL), text("HTTPS://example.com/tickets"), testNow)
	require.Equal(t, EffectPrompt, ok.Effect)
	assert.Equal(t, "HTTPS://example.com/tickets", ok.Session.URL)
}

func TestStep_CitySelection(t *testing.T) {
	m := newTestMachine()
	s := at(domain.StateSelectingCity)

	requireValidation(t, m.Step(s, Event{Kind: EventConfirmCities}, testNow), domain.StateSelectingCity)

	s = m.Step(s, Event{Kind: EventToggleCity, City: "Moscow"}, testNow).Session
	s = m.Step(s, Event{Kind: EventToggleCity, City: "Moscow"}, testNow).Session
	assert.Empty(t, s.Cities, "toggling twice removes the city")

	unknown := m.Step(s, Event{Kind: EventToggleCity, City: "Atlantis"}, testNow)
	assert.Equal(t, EffectIgnored, unknown.Effect)

	s = m.Step(s, Event{Kind: EventSelectAllCities}, testNow).Session
	assert.Equal(t, []string{"Moscow", "Saint Petersburg"}, s.Cities)

	requireValidation(t, m.Step(s, text("Moscow"), testNow), domain.StateSelectingCity)
}

func TestStep_CategorySelection(t *testing.T) {
	m := newTestMachine()
	s := at(domain.StateSelectingCategories)

	requireValidation(t, m.Step(s, Event{Kind: EventConfirmCategories}, testNow), domain.StateSelectingCategories)

	s = m.Step(s, Event{Kind: EventToggleCategory, CategoryID: 3}, testNow).Session
	s = m.Step(s, Event{Kind: EventToggleCategory, CategoryID: 5}, testNow).Session
	s = m.Step(s, Event{Kind: EventToggleCategory, CategoryID: 3}, testNow).Session
	assert.Equal(t, []int64{5}, s.CategoryIDs)
}

func TestStep_ImageStep(t *testing.T) {
	m := newTestMachine()
	s := at(domain.StateAwaitingImage)
	s.Title, s.Content, s.Cities, s.CategoryIDs = "t", "c", []string{"Moscow"}, []int64{1}

	requireValidation(t, m.Step(s, text("here is my photo"), testNow), domain.StateAwaitingImage)

	withImage := m.Step(s, Event{Kind: EventImage, MediaRef: "abc.jpg"}, testNow)
	assert.Equal(t, EffectCommit, withImage.Effect)
	assert.Equal(t, "abc.jpg", withImage.Session.ImageID)

	s.Title = ""
	assert.Equal(t, EffectAbort, m.Step(s, Event{Kind: EventSkip}, testNow).Effect)
}

func TestStep_CancelFromAnyState(t *testing.T) {
	m := newTestMachine()

	for _, state := range []domain.WizardState{
		domain.StateSelectingCity, domain.StateSelectingCategories, domain.StateAwaitingTitle,
		domain.StateAwaitingContent, domain.StateAwaitingURL, domain.StateAwaitingEventAt,
		domain.StateAwaitingAddress, domain.StateAwaitingImage,
	} {
		out := m.Step(at(state), Event{Kind: EventCancel}, testNow)
		assert.Equal(t, EffectCancelled, out.Effect, state)
		assert.Equal(t, domain.StateCancelled, out.Session.State, state)
	}
}

func TestStep_IgnoresEventsOutsideFlow(t *testing.T) {
	m := newTestMachine()

	for _, state := range []domain.WizardState{domain.StateIdle, domain.StateCommitted, domain.StateCancelled} {
		assert.Equal(t, EffectIgnored, m.Step(at(state), text("hello"), testNow).Effect, state)
	}
}
