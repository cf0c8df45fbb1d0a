package schema

// ComicVoteTable represents the 'social.comicvote' table
type ComicVoteTable struct {
	Table     string
	ComicID   string
	UserID    string
	Vote      string
	CreatedAt string
}

// ComicVote is the schema definition for social.comicvote
var ComicVote = ComicVoteTable{
	Table:     "social.comicvote",
	ComicID:   "comicid",
	UserID:    "userid",
	Vote:      "vote",
	CreatedAt: "createdat",
}
