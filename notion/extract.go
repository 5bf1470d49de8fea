package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/dkoval/notewave/models"
)

// UnsupportedPrefix marks content the renderer must not display verbatim.
// It is an internal sentinel, never user-visible output.
const UnsupportedPrefix = "Unsupported block type: "

// ExtractContent maps one remote block to its (type, content) pair. The type
// is the block's own discriminator; content is the concatenation of the
// block's inline rich-text runs. Types without inline text (table, image)
// yield empty content and the renderer substitutes a placeholder. Extraction
// never fails: unrecognized types get the sentinel content.
func ExtractContent(block notionapi.Block) (string, string) {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return models.BlockParagraph, plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return models.BlockHeading1, plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return models.BlockHeading2, plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return models.BlockHeading3, plainText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return models.BlockBulletedItem, plainText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return models.BlockNumberedItem, plainText(b.NumberedListItem.RichText)
	case *notionapi.ToggleBlock:
		return models.BlockToggle, plainText(b.Toggle.RichText)
	case *notionapi.TableBlock:
		return models.BlockTable, ""
	case *notionapi.ImageBlock:
		return models.BlockImage, ""
	default:
		rawType := string(block.GetType())
		return rawType, UnsupportedPrefix + rawType
	}
}

func plainText(richTexts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richTexts {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}
