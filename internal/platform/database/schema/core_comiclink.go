package schema

// ComicLinkTable represents the 'core.comiclink' table
type ComicLinkTable struct {
	Table      string
	FirstComic string
	LastComic  string
}

// ComicLink is the schema definition for core.comiclink
var ComicLink = ComicLinkTable{
	Table:      "core.comiclink",
	FirstComic: "firstcomic",
	LastComic:  "lastcomic",
}
