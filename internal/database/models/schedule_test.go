package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cases := map[string]string{
			"09:00": "09:00",
			"9:00":  "09:00",
			"0:05":  "00:05",
			"00:00": "00:00",
			"23:59": "23:59",
			"12:30": "12:30",
			"19:45": "19:45",
		}
		for input, want := range cases {
			got, err := ParseTimeOfDay(input)
			assert.NoError(t, err, "input %q", input)
			assert.Equal(t, want, got, "input %q", input)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		cases := []string{
			"",
			"24:00",
			"12:60",
			"99:99",
			"12",
			"12:",
			":30",
			"12:3",
			"12-30",
			"12:30:00",
			"noon",
			" 12:30",
			"12:30 ",
		}
		for _, input := range cases {
			_, err := ParseTimeOfDay(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestSplitTimeOfDay(t *testing.T) {
	hour, minute, err := SplitTimeOfDay("07:45")
	assert.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 45, minute)

	_, _, err = SplitTimeOfDay("garbage")
	assert.Error(t, err)
}

func TestContentIsPostable(t *testing.T) {
	t.Run("ActivePhoto", func(t *testing.T) {
		content := Content{
			Type:              ContentTypePhoto,
			FileID:            "file",
			Status:            ContentStatusActive,
			PublishingEnabled: true,
		}
		assert.True(t, content.IsPostable())
	})

	t.Run("DeletedContent", func(t *testing.T) {
		content := Content{
			Type:              ContentTypePhoto,
			FileID:            "file",
			Status:            ContentStatusDeleted,
			PublishingEnabled: true,
		}
		assert.False(t, content.IsPostable())
	})

	t.Run("PublishingDisabled", func(t *testing.T) {
		content := Content{
			Type:              ContentTypePhoto,
			FileID:            "file",
			Status:            ContentStatusActive,
			PublishingEnabled: false,
		}
		assert.False(t, content.IsPostable())
	})

	t.Run("TextFallsBackToCaption", func(t *testing.T) {
		content := Content{
			Type:              ContentTypeText,
			Caption:           "caption text",
			Status:            ContentStatusActive,
			PublishingEnabled: true,
		}
		assert.True(t, content.IsPostable())
	})

	t.Run("EmptyTextContent", func(t *testing.T) {
		content := Content{
			Type:              ContentTypeText,
			Status:            ContentStatusActive,
			PublishingEnabled: true,
		}
		assert.False(t, content.IsPostable())
	})

	t.Run("PhotoWithoutFileID", func(t *testing.T) {
		content := Content{
			Type:              ContentTypePhoto,
			Status:            ContentStatusActive,
			PublishingEnabled: true,
		}
		assert.False(t, content.IsPostable())
	})
}
