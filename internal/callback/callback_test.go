package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	commands := []Command{
		Navigate{Section: SectionFeed, Page: 3, Direction: Next},
		Navigate{Section: SectionLiked, Page: 0, Direction: Prev},
		Open{Section: SectionLiked, PostID: 9_223_372_036_854_775_807, Page: 12},
		Back{Section: SectionFeed, Page: 1},
		Back{Section: SectionMine, Page: 4},
		ToggleLike{Section: SectionFeed, PostID: 77, Page: 2},
		ToggleCity{Index: 1},
		SelectAllCities{},
		ConfirmCities{},
		ToggleCategory{CategoryID: 4},
		ConfirmCategories{},
		SkipStep{},
		CancelWizard{},
		Approve{PostID: 15},
		Reject{PostID: 15},
	}

	for _, cmd := range commands {
		data := Encode(cmd)
		assert.LessOrEqual(t, len(data), MaxDataLength, data)

		got, err := Decode(data)
		require.NoError(t, err, data)
		assert.Equal(t, cmd, got)
	}
}

func TestDecodeRejectsUnknown(t *testing.T) {
	for _, data := range []string{
		"",
		"open_post_5_feed_1",
		`{"a":"explode"}`,
		`{"a":"nav","s":"f","p":1}`,
		`{"a":"open","s":"x","id":1}`,
	} {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrUnknownCommand, data)
	}
}
