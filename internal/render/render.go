// Package render turns posts and feed windows into telegram HTML and inline
// keyboards.
package render

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/callback"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/feed"
	"github.com/orgball2608/events-telegram-bot/pkg/formatter"
	"github.com/samber/lo"
)

// Telegram allows 1024 characters in a photo caption.
const captionContentLimit = 600

type Renderer struct {
	calendar *calendar.Calendar
}

func New(cal *calendar.Calendar) *Renderer {
	return &Renderer{calendar: cal}
}

// Post renders the details view.
func (r *Renderer) Post(p *domain.Post, likes int) string {
	return r.post(p, likes, p.Content)
}

// PostCaption is Post shortened to fit under a photo.
func (r *Renderer) PostCaption(p *domain.Post, likes int) string {
	return r.post(p, likes, formatter.Truncate(p.Content, captionContentLimit))
}

func (r *Renderer) post(p *domain.Post, likes int, content string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s</b>\n\n", formatter.EscapeHTML(p.Title))
	fmt.Fprintf(&b, "%s\n\n", formatter.EscapeHTML(content))
	fmt.Fprintf(&b, "📍 %s\n", formatter.EscapeHTML(strings.Join(p.Cities, ", ")))
	if len(p.Categories) > 0 {
		fmt.Fprintf(&b, "🏷 %s\n", formatter.EscapeHTML(categoryList(p.Categories)))
	}
	fmt.Fprintf(&b, "🗓 %s\n", r.calendar.Format(p.EventAt))
	if p.Address != "" {
		fmt.Fprintf(&b, "🏠 %s\n", formatter.EscapeHTML(p.Address))
	}
	fmt.Fprintf(&b, "👤 <a href=\"tg://user?id=%d\">author</a>\n", p.AuthorID)
	fmt.Fprintf(&b, "❤️ %s", formatter.FormatNumber(likes))

	return b.String()
}

func categoryList(categories []domain.Category) string {
	return strings.Join(lo.Map(categories, func(c domain.Category, _ int) string {
		return strings.TrimSpace(c.Emoji + " " + c.Name)
	}), ", ")
}

// Page renders a feed or liked window. Empty windows share one text whether
// the list has no posts at all or the page is past its end.
func (r *Renderer) Page(w feed.Window) string {
	if w.Empty() {
		switch w.Kind {
		case feed.KindLiked:
			return "You have not liked any events yet."
		case feed.KindMine:
			return "You have not created any events yet. Start with /create_post."
		}
		return "There are no events matching your preferences yet."
	}

	var b strings.Builder
	title := "📰 Events"
	switch w.Kind {
	case feed.KindLiked:
		title = "❤️ Liked events"
	case feed.KindMine:
		title = "📊 My events"
	}
	fmt.Fprintf(&b, "<b>%s</b> · page %d/%d\n\n", title, w.Page+1, w.Pages())

	for i, p := range w.Posts {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n   🗓 %s · 📍 %s\n",
			w.Rank(i),
			formatter.EscapeHTML(formatter.Truncate(p.Title, 60)),
			r.calendar.Format(p.EventAt),
			formatter.EscapeHTML(strings.Join(p.Cities, ", ")),
		)
		if w.Kind == feed.KindMine {
			fmt.Fprintf(&b, "   %s\n", status(p))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// PageKeyboard lists one button per post plus the navigation row. Next is
// offered only while more pages exist; the navigation itself does not clamp.
func (r *Renderer) PageKeyboard(w feed.Window) *tgbotapi.InlineKeyboardMarkup {
	section := sectionOf(w.Kind)

	var rows [][]tgbotapi.InlineKeyboardButton
	// Pending posts cannot be opened, so the author's list only pages.
	posts := w.Posts
	if w.Kind == feed.KindMine {
		posts = nil
	}
	for i, p := range posts {
		label := fmt.Sprintf("%d. %s", w.Rank(i), formatter.Truncate(p.Title, 40))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callback.Encode(callback.Open{Section: section, PostID: p.ID, Page: w.Page})),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if w.HasPrev() || w.OutOfRange() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", callback.Encode(callback.Navigate{Section: section, Page: w.Page, Direction: callback.Prev})))
	}
	if w.HasNext() {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", callback.Encode(callback.Navigate{Section: section, Page: w.Page, Direction: callback.Next})))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// PostKeyboard is shown under the details view.
func (r *Renderer) PostKeyboard(p *domain.Post, section callback.Section, page int, liked bool, likes int) *tgbotapi.InlineKeyboardMarkup {
	heart := "🤍"
	if liked {
		heart = "❤️"
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", heart, likes), callback.Encode(callback.ToggleLike{Section: section, PostID: p.ID, Page: page})),
		),
	}
	if p.URL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🔗 Open link", p.URL)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", callback.Encode(callback.Back{Section: section, Page: page})),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func status(p *domain.Post) string {
	if p.Approved {
		return "✅ Approved"
	}
	return "⏳ Awaiting moderation"
}

func sectionOf(kind feed.Kind) callback.Section {
	switch kind {
	case feed.KindLiked:
		return callback.SectionLiked
	case feed.KindMine:
		return callback.SectionMine
	}
	return callback.SectionFeed
}

// KindOf maps a callback section back to a feed kind.
func KindOf(section callback.Section) feed.Kind {
	switch section {
	case callback.SectionLiked:
		return feed.KindLiked
	case callback.SectionMine:
		return feed.KindMine
	}
	return feed.KindFeed
}
