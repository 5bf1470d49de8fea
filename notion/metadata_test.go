package notion_test

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"

	"github.com/dkoval/notewave/notion"
)

func titleProp(text string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{
		Title: []notionapi.RichText{{PlainText: text}},
	}
}

func richTextProp(text string) *notionapi.RichTextProperty {
	return &notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{PlainText: text}},
	}
}

func TestExtractDetails_FirstCandidateWins(t *testing.T) {
	meta := notion.PageMeta{
		Properties: notionapi.Properties{
			"Name":  titleProp("From Name"),
			"Title": titleProp("From Title"),
		},
	}

	details := notion.ExtractDetails(meta)

	assert.Equal(t, "From Name", details.Title)
}

func TestExtractDetails_SkipsEmptyCandidate(t *testing.T) {
	meta := notion.PageMeta{
		Properties: notionapi.Properties{
			"Name":  titleProp(""),
			"Title": titleProp("Fallback"),
		},
	}

	details := notion.ExtractDetails(meta)

	assert.Equal(t, "Fallback", details.Title)
}

func TestExtractDetails_Description(t *testing.T) {
	meta := notion.PageMeta{
		Properties: notionapi.Properties{
			"Summary": richTextProp("A short summary"),
		},
	}

	details := notion.ExtractDetails(meta)

	assert.Equal(t, "A short summary", details.Description)
}

func TestExtractDetails_MissingPropertiesLeaveFieldsEmpty(t *testing.T) {
	details := notion.ExtractDetails(notion.PageMeta{})

	assert.Empty(t, details.Title)
	assert.Empty(t, details.Description)
	assert.Nil(t, details.Author)
}

func TestExtractDetails_AuthorAndTimestamps(t *testing.T) {
	created := time.Unix(1700000000, 0)
	edited := time.Unix(1700000500, 0)
	meta := notion.PageMeta{
		URL:            "https://notion.so/p1",
		CreatedTime:    created,
		LastEditedTime: edited,
		CreatedBy: notionapi.User{
			ID:        "user-1",
			Name:      "Jane",
			AvatarURL: "https://example.com/jane.png",
		},
	}

	details := notion.ExtractDetails(meta)

	assert.Equal(t, "https://notion.so/p1", details.URL)
	assert.Equal(t, created.Unix(), details.CreatedDate)
	assert.Equal(t, edited.Unix(), details.LastEditedDate)
	if assert.NotNil(t, details.Author) {
		assert.Equal(t, "Jane", details.Author.Name)
		assert.Equal(t, "user-1", details.Author.Id)
	}
}
