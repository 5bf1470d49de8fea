package notion

import (
	"github.com/jomei/notionapi"

	"github.com/dkoval/notewave/models"
)

// PageDetails carries the extracted metadata fields for a Page record.
type PageDetails struct {
	Title          string
	Description    string
	Author         *models.Author
	CreatedDate    int64
	URL            string
	LastEditedDate int64
}

// Candidate property names consulted in priority order; the first present
// non-empty value wins. These encode an assumption about the external
// schema: a workspace that renames its title/description properties outside
// this list will sync with empty metadata.
var (
	titleProperties       = []string{"Name", "Title", "title", "Page"}
	descriptionProperties = []string{"Description", "Summary", "description"}
)

// ExtractDetails pulls title, description, author, and dates out of a remote
// page's property map. Missing or unrecognized properties leave the
// corresponding field empty; extraction never fails.
func ExtractDetails(meta PageMeta) PageDetails {
	details := PageDetails{
		URL:            meta.URL,
		CreatedDate:    meta.CreatedTime.Unix(),
		LastEditedDate: meta.LastEditedTime.Unix(),
	}

	for _, name := range titleProperties {
		prop, ok := meta.Properties[name]
		if !ok {
			continue
		}
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := plainText(title.Title); text != "" {
				details.Title = text
				break
			}
		}
	}

	for _, name := range descriptionProperties {
		prop, ok := meta.Properties[name]
		if !ok {
			continue
		}
		if rich, ok := prop.(*notionapi.RichTextProperty); ok {
			if text := plainText(rich.RichText); text != "" {
				details.Description = text
				break
			}
		}
	}

	if meta.CreatedBy.ID != "" {
		details.Author = &models.Author{
			Id:        string(meta.CreatedBy.ID),
			Name:      meta.CreatedBy.Name,
			AvatarUrl: meta.CreatedBy.AvatarURL,
		}
	}

	return details
}
