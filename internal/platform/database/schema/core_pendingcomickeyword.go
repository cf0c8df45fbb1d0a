package schema

// PendingComicKeywordTable represents the 'core.pendingcomickeyword' table
type PendingComicKeywordTable struct {
	Table     string
	ComicID   string
	KeywordID string
}

// PendingComicKeyword is the schema definition for core.pendingcomickeyword
var PendingComicKeyword = PendingComicKeywordTable{
	Table:     "core.pendingcomickeyword",
	ComicID:   "comicid",
	KeywordID: "keywordid",
}
