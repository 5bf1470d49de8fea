package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/notion"
)

const (
	untitledTitle    = "Untitled Document"
	noContentLine    = "No content blocks available."
	imagePlaceholder = "[Image: ...]"
	tablePlaceholder = "[Table: ...]"
)

// RenderPlainText linearizes a page into one plain-text document: a title and
// metadata header, then the block tree in reading order with nesting encoded
// as two-space indentation. It is a pure function of its input; rendering the
// same page twice yields byte-identical output.
func RenderPlainText(page models.Page) string {
	var sb strings.Builder

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = untitledTitle
	}
	sb.WriteString("# " + title + "\n\n")

	if description := strings.TrimSpace(page.Description); description != "" {
		sb.WriteString(description + "\n\n")
	}

	var metaParts []string
	if page.Author != nil && page.Author.Name != "" {
		metaParts = append(metaParts, "Author: "+page.Author.Name)
	}
	if page.CreatedDate > 0 {
		metaParts = append(metaParts, "Date: "+time.Unix(page.CreatedDate, 0).UTC().Format("January 2, 2006"))
	}
	if len(metaParts) > 0 {
		sb.WriteString(strings.Join(metaParts, " | ") + "\n\n")
	}

	sb.WriteString("---\n\n")

	if len(page.Blocks) == 0 {
		sb.WriteString(noContentLine + "\n")
		return sb.String()
	}

	renderBlocks(&sb, page.Blocks, 0, make([]int, 1))

	return sb.String()
}

// renderBlocks walks one sibling list. All rendering state is explicit in the
// parameters: indent is the current nesting level and counters holds one
// ordered-list counter per depth; descents get a copy so nested lists number
// independently of their ancestors.
func renderBlocks(sb *strings.Builder, blocks []models.Block, indent int, counters []int) {
	prefix := strings.Repeat("  ", indent)

	for i := range blocks {
		block := blocks[i]
		content := strings.TrimSpace(block.Content)

		// Sentinel content marks a block type nothing knows how to render.
		// Image and table blocks get placeholders; everything else is
		// dropped silently.
		if strings.HasPrefix(block.Content, notion.UnsupportedPrefix) &&
			block.Type != models.BlockImage && block.Type != models.BlockTable {
			continue
		}

		switch block.Type {
		case models.BlockImage:
			sb.WriteString(prefix + imagePlaceholder + "\n")
			continue
		case models.BlockTable:
			sb.WriteString(prefix + tablePlaceholder + "\n")
			continue
		}

		if content == "" && len(block.Children) == 0 {
			continue
		}

		switch block.Type {
		case models.BlockHeading1:
			sb.WriteString(prefix + "# " + content + "\n\n")

		case models.BlockHeading2:
			sb.WriteString(prefix + "## " + content + "\n\n")

		case models.BlockHeading3:
			sb.WriteString(prefix + "### " + content + "\n\n")

		case models.BlockParagraph:
			if content != "" {
				sb.WriteString(prefix + content + "\n\n")
			}
			if len(block.Children) > 0 {
				renderBlocks(sb, block.Children, indent+1, copyCounters(counters))
			}

		case models.BlockBulletedItem:
			// A bulleted run at the top level is framed by blank lines:
			// one before the first item, one after the last.
			if indent == 0 && typeAt(blocks, i-1) != models.BlockBulletedItem {
				sb.WriteString("\n")
			}
			sb.WriteString(prefix + "- " + content + "\n")
			if len(block.Children) > 0 {
				renderBlocks(sb, block.Children, indent+1, copyCounters(counters))
			}
			if indent == 0 && typeAt(blocks, i+1) != models.BlockBulletedItem {
				sb.WriteString("\n")
			}

		case models.BlockNumberedItem:
			counters = growCounters(counters, indent)
			if typeAt(blocks, i-1) == models.BlockNumberedItem {
				counters[indent]++
			} else {
				// A new numbered run restarts the counter at this depth.
				counters[indent] = 1
			}
			if indent == 0 && typeAt(blocks, i-1) != models.BlockNumberedItem {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("%s%d. %s\n", prefix, counters[indent], content))
			if len(block.Children) > 0 {
				renderBlocks(sb, block.Children, indent+1, copyCounters(counters))
			}
			if indent == 0 && typeAt(blocks, i+1) != models.BlockNumberedItem {
				sb.WriteString("\n")
			}

		case models.BlockToggle:
			sb.WriteString(prefix + "▶ " + content + "\n")
			if len(block.Children) > 0 {
				renderBlocks(sb, block.Children, indent+1, copyCounters(counters))
			}
			sb.WriteString("\n")

		default:
			if content != "" {
				sb.WriteString(prefix + content + "\n")
			}
			if len(block.Children) > 0 {
				renderBlocks(sb, block.Children, indent+1, copyCounters(counters))
			}
		}
	}
}

// typeAt returns the type of the sibling at index i, or "" when out of range,
// for list-run boundary detection.
func typeAt(blocks []models.Block, i int) string {
	if i < 0 || i >= len(blocks) {
		return ""
	}
	return blocks[i].Type
}

func copyCounters(counters []int) []int {
	copied := make([]int, len(counters))
	copy(copied, counters)
	return copied
}

func growCounters(counters []int, depth int) []int {
	for len(counters) <= depth {
		counters = append(counters, 0)
	}
	return counters
}
