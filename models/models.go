package models

type User struct {
	Id         string
	Username   string
	Provider   string
	ProviderId string
	Created    int64
}

// Block is one normalized node of a page's content tree. A tree is owned
// wholesale by its Page and serialized with it as a single JSON document.
type Block struct {
	Id       string  `json:"id"`
	Type     string  `json:"type"`
	Content  string  `json:"content"`
	Children []Block `json:"children,omitempty"`
}

// Block types recognized by the renderer. Anything else is carried through
// with its raw Notion type tag and sentinel content.
const (
	BlockParagraph    = "paragraph"
	BlockHeading1     = "heading_1"
	BlockHeading2     = "heading_2"
	BlockHeading3     = "heading_3"
	BlockBulletedItem = "bulleted_list_item"
	BlockNumberedItem = "numbered_list_item"
	BlockToggle       = "toggle"
	BlockTable        = "table"
	BlockImage        = "image"
)

type Author struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	AvatarUrl string `json:"avatarUrl"`
}

// Page is one synchronized Notion document. (ExternalId, OwnerId) identifies
// at most one row; every successful sync replaces all fields wholesale.
type Page struct {
	ExternalId         string  `json:"externalId"`
	OwnerId            string  `json:"ownerId"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Author             *Author `json:"author,omitempty"`
	CreatedDate        int64   `json:"createdDate"`
	URL                string  `json:"url"`
	Blocks             []Block `json:"blocks"`
	PlainText          string  `json:"plainText"`
	AnalysisText       string  `json:"analysisText,omitempty"`
	AnalyzedAt         int64   `json:"analyzedAt,omitempty"`
	LastSyncedAt       int64   `json:"lastSyncedAt"`
	SourceLastEditedAt int64   `json:"sourceLastEditedAt"`
}
