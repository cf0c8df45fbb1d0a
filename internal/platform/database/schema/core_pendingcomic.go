package schema

// PendingComicTable represents the 'core.pendingcomic' table
type PendingComicTable struct {
	Table           string
	ID              string
	ModeratorID     string
	Name            string
	ArtistID        string
	Cat             string
	Tag             string
	State           string
	NumberOfPages   string
	HasThumbnail    string
	Processed       string
	Approved        string
	PreviousComicID string
	NextComicID     string
	CreatedAt       string
}

// PendingComic is the schema definition for core.pendingcomic
var PendingComic = PendingComicTable{
	Table:           "core.pendingcomic",
	ID:              "id",
	ModeratorID:     "moderatorid",
	Name:            "name",
	ArtistID:        "artistid",
	Cat:             "cat",
	Tag:             "tag",
	State:           "state",
	NumberOfPages:   "numberofpages",
	HasThumbnail:    "hasthumbnail",
	Processed:       "processed",
	Approved:        "approved",
	PreviousComicID: "previouscomicid",
	NextComicID:     "nextcomicid",
	CreatedAt:       "createdat",
}
