package store

// Section identifies which list of the episode an item belongs to.
type Section string

const (
	SectionVulnerability Section = "vulnerability"
	SectionNews          Section = "news"
)

// Valid reports whether the section is one of the fixed set.
func (s Section) Valid() bool {
	return s == SectionVulnerability || s == SectionNews
}

// Item is one content entry. ParentID is nil for top-level items; secondaries
// carry the id of their primary. SortOrder is contiguous from zero within the
// item's sibling scope (top level of a section, or one primary's secondaries).
type Item struct {
	ID            int64   `json:"id"`
	Section       Section `json:"section"`
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	AuthorName    string  `json:"author_name"`
	AuthorURL     string  `json:"author_url"`
	TalkingPoints string  `json:"talking_points"`
	ParentID      *int64  `json:"parent_id"`
	SortOrder     int     `json:"sort_order"`
}

// TopLevel reports whether the item has no primary.
func (i Item) TopLevel() bool {
	return i.ParentID == nil
}

// OrderedItems holds both sections in display order. News is in group order:
// each primary immediately followed by its secondaries.
type OrderedItems struct {
	Vulnerability []Item `json:"vulnerability"`
	News          []Item `json:"news"`
}

// Group is a primary together with its ordered secondaries.
type Group struct {
	Primary     Item   `json:"primary"`
	Secondaries []Item `json:"secondaries"`
}

// Episode is the single mutable episode record.
type Episode struct {
	WeekNumber int    `json:"week_number"`
	Year       int    `json:"year"`
	YouTubeURL string `json:"youtube_url"`
}

// AuthorSuggestion is one autocomplete candidate.
type AuthorSuggestion struct {
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
	UseCount   int    `json:"use_count"`
}

// Suggestions groups autocomplete candidates by domain affinity.
type Suggestions struct {
	DomainAuthors []AuthorSuggestion `json:"domain_authors"`
	OtherAuthors  []AuthorSuggestion `json:"other_authors"`
}
