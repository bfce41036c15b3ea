// Package callback encodes inline button payloads. Every payload is decoded
// once, at the transport boundary, into one of a closed set of commands.
package callback

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Telegram rejects callback data longer than this.
const MaxDataLength = 64

var ErrUnknownCommand = errors.New("unknown callback command")

type Section string

const (
	SectionFeed  Section = "f"
	SectionLiked Section = "l"
	SectionMine  Section = "m"
)

type Direction string

const (
	Prev Direction = "p"
	Next Direction = "n"
)

// Command is implemented only by the types of this package.
type Command interface {
	action() string
}

type (
	// Navigate moves one page from Page in the given direction.
	Navigate struct {
		Section   Section
		Page      int
		Direction Direction
	}

	// Open shows the details of a post listed on Page.
	Open struct {
		Section Section
		PostID  int64
		Page    int
	}

	// Back returns from post details to the page it was opened from.
	Back struct {
		Section Section
		Page    int
	}

	ToggleLike struct {
		Section Section
		PostID  int64
		Page    int
	}

	// ToggleCity refers to the city by its index in the configured list.
	ToggleCity struct {
		Index int
	}
	SelectAllCities   struct{}
	ConfirmCities     struct{}
	ToggleCategory    struct{ CategoryID int64 }
	ConfirmCategories struct{}
	SkipStep          struct{}
	CancelWizard      struct{}

	Approve struct{ PostID int64 }
	Reject  struct{ PostID int64 }
)

func (Navigate) action() string          { return "nav" }
func (Open) action() string              { return "open" }
func (Back) action() string              { return "back" }
func (ToggleLike) action() string        { return "like" }
func (ToggleCity) action() string        { return "city" }
func (SelectAllCities) action() string   { return "city_all" }
func (ConfirmCities) action() string     { return "city_ok" }
func (ToggleCategory) action() string    { return "cat" }
func (ConfirmCategories) action() string { return "cat_ok" }
func (SkipStep) action() string          { return "skip" }
func (CancelWizard) action() string      { return "cancel" }
func (Approve) action() string           { return "approve" }
func (Reject) action() string            { return "reject" }

// payload is the wire form. Keys are short to stay under MaxDataLength.
type payload struct {
	Action    string    `json:"a"`
	Section   Section   `json:"s,omitempty"`
	Page      int       `json:"p,omitempty"`
	Direction Direction `json:"d,omitempty"`
	ID        int64     `json:"id,omitempty"`
	Index     int       `json:"i,omitempty"`
}

func Encode(cmd Command) string {
	p := payload{Action: cmd.action()}

	switch c := cmd.(type) {
	case Navigate:
		p.Section, p.Page, p.Direction = c.Section, c.Page, c.Direction
	case Open:
		p.Section, p.ID, p.Page = c.Section, c.PostID, c.Page
	case Back:
		p.Section, p.Page = c.Section, c.Page
	case ToggleLike:
		p.Section, p.ID, p.Page = c.Section, c.PostID, c.Page
	case ToggleCity:
		p.Index = c.Index
	case ToggleCategory:
		p.ID = c.CategoryID
	case Approve:
		p.ID = c.PostID
	case Reject:
		p.ID = c.PostID
	}

	data, _ := json.Marshal(p)
	return string(data)
}

func Decode(data string) (Command, error) {
	var p payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
	}

	section := func() (Section, error) {
		switch p.Section {
		case SectionFeed, SectionLiked, SectionMine:
			return p.Section, nil
		}
		return "", fmt.Errorf("%w: section %q", ErrUnknownCommand, p.Section)
	}

	switch p.Action {
	case "nav":
		s, err := section()
		if err != nil {
			return nil, err
		}
		if p.Direction != Prev && p.Direction != Next {
			return nil, fmt.Errorf("%w: direction %q", ErrUnknownCommand, p.Direction)
		}
		return Navigate{Section: s, Page: p.Page, Direction: p.Direction}, nil
	case "open":
		s, err := section()
		if err != nil {
			return nil, err
		}
		return Open{Section: s, PostID: p.ID, Page: p.Page}, nil
	case "back":
		s, err := section()
		if err != nil {
			return nil, err
		}
		return Back{Section: s, Page: p.Page}, nil
	case "like":
		s, err := section()
		if err != nil {
			return nil, err
		}
		return ToggleLike{Section: s, PostID: p.ID, Page: p.Page}, nil
	case "city":
		return ToggleCity{Index: p.Index}, nil
	case "city_all":
		return SelectAllCities{}, nil
	case "city_ok":
		return ConfirmCities{}, nil
	case "cat":
		return ToggleCategory{CategoryID: p.ID}, nil
	case "cat_ok":
		return ConfirmCategories{}, nil
	case "skip":
		return SkipStep{}, nil
	case "cancel":
		return CancelWizard{}, nil
	case "approve":
		return Approve{PostID: p.ID}, nil
	case "reject":
		return Reject{PostID: p.ID}, nil
	}

	return nil, fmt.Errorf("%w: action %q", ErrUnknownCommand, p.Action)
}
