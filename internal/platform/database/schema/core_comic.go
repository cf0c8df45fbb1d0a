package schema

// CoreComicTable represents the 'core.comic' table
type CoreComicTable struct {
	Table         string
	ID            string
	Name          string
	Cat           string
	Tag           string
	ArtistID      string
	State         string
	NumberOfPages string
	CreatedAt     string
	UpdatedAt     string
}

// CoreComic is the schema definition for core.comic
var CoreComic = CoreComicTable{
	Table:         "core.comic",
	ID:            "id",
	Name:          "name",
	Cat:           "cat",
	Tag:           "tag",
	ArtistID:      "artistid",
	State:         "state",
	NumberOfPages: "numberofpages",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}
