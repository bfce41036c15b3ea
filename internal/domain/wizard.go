package domain

import "time"

type WizardState string

const (
	StateIdle                WizardState = "idle"
	StateSelectingCity       WizardState = "selecting_city"
	StateSelectingCategories WizardState = "selecting_categories"
	StateAwaitingTitle       WizardState = "awaiting_title"
	StateAwaitingContent     WizardState = "awaiting_content"
	StateAwaitingURL         WizardState = "awaiting_url"
	StateAwaitingEventAt     WizardState = "awaiting_event_datetime"
	StateAwaitingAddress     WizardState = "awaiting_address"
	StateAwaitingImage       WizardState = "awaiting_image"
	StateCommitted           WizardState = "committed"
	StateCancelled           WizardState = "cancelled"
)

// Terminal reports whether the session must be discarded.
func (s WizardState) Terminal() bool {
	return s == StateCommitted || s == StateCancelled
}

// WizardSession accumulates a post across the steps of the creation flow.
type WizardSession struct {
	UserID      int64       `json:"user_id"`
	ChatID      int64       `json:"chat_id"`
	State       WizardState `json:"state"`
	Cities      []string    `json:"cities,omitempty"`
	CategoryIDs []int64     `json:"category_ids,omitempty"`
	Title       string      `json:"title,omitempty"`
	Content     string      `json:"content,omitempty"`
	URL         string      `json:"url,omitempty"`
	EventAt     time.Time   `json:"event_at"`
	Address     string      `json:"address,omitempty"`
	ImageID     string      `json:"image_id,omitempty"`

	// MenuMessageID is the message carrying the current selection keyboard.
	MenuMessageID int       `json:"menu_message_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Draft converts the accumulated fields into a post submission.
func (s *WizardSession) Draft() NewPost {
	return NewPost{
		AuthorID:    s.UserID,
		Title:       s.Title,
		Content:     s.Content,
		CategoryIDs: s.CategoryIDs,
		Cities:      s.Cities,
		EventAt:     s.EventAt,
		Address:     s.Address,
		URL:         s.URL,
		ImageID:     s.ImageID,
	}
}
