package wikipedia

// RandomResponse is the top-level struct for a list=random query.
type RandomResponse struct {
	Query RandomQuery `json:"query"`
}

// RandomQuery holds the random pages picked by the API.
type RandomQuery struct {
	Random []RandomPage `json:"random"`
}

// RandomPage is a single random pick. NS=0 for articles.
type RandomPage struct {
	ID    int    `json:"id"`
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

// PageAPIResponse is the top-level struct for a prop=extracts|pageprops[|langlinks] query.
type PageAPIResponse struct {
	Query PageQuery `json:"query"`
}

// PageQuery contains the pages map keyed by page id ("-1" and below for missing pages).
type PageQuery struct {
	Pages map[string]Page `json:"pages"`
}

// Page is a single page of a query. Every field the API may omit is a pointer
// or a slice, so absence can be told apart from an empty value.
type Page struct {
	PageID    int        `json:"pageid"`
	NS        int        `json:"ns"`
	Title     string     `json:"title"`
	Missing   *string    `json:"missing,omitempty"`
	Extract   *string    `json:"extract,omitempty"`
	PageProps *PageProps `json:"pageprops,omitempty"`
	LangLinks []LangLink `json:"langlinks,omitempty"`
}

// PageProps holds the page properties we care about.
type PageProps struct {
	WikibaseItem *string `json:"wikibase_item,omitempty"`
}

// LangLink points to the same article in another language edition.
type LangLink struct {
	Lang     string `json:"lang"`
	URL      string `json:"url,omitempty"`
	LangName string `json:"langname,omitempty"`
	Title    string `json:"*"`
}

// WikibaseItem returns the Wikidata id of the page, nil when the page has none.
func (p Page) WikibaseItem() *string {
	if p.PageProps == nil {
		return nil
	}
	return p.PageProps.WikibaseItem
}
