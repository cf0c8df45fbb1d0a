package schema

// CoreKeywordTable represents the 'core.keyword' table
type CoreKeywordTable struct {
	Table string
	ID    string
	Name  string
}

// CoreKeyword is the schema definition for core.keyword
var CoreKeyword = CoreKeywordTable{
	Table: "core.keyword",
	ID:    "id",
	Name:  "name",
}
