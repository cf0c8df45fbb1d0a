package schema

// ComicKeywordTable represents the 'core.comickeyword' table
type ComicKeywordTable struct {
	Table     string
	ComicID   string
	KeywordID string
}

// ComicKeyword is the schema definition for core.comickeyword
var ComicKeyword = ComicKeywordTable{
	Table:     "core.comickeyword",
	ComicID:   "comicid",
	KeywordID: "keywordid",
}
