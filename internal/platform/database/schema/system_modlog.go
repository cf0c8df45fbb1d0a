package schema

// ModLogTable represents the 'system.modlog' table
type ModLogTable struct {
	Table             string
	ID                string
	UserID            string
	ActionType        string
	ActionDescription string
	ActionDetails     string
	Timestamp         string
}

// ModLog is the schema definition for system.modlog
var ModLog = ModLogTable{
	Table:             "system.modlog",
	ID:                "id",
	UserID:            "userid",
	ActionType:        "actiontype",
	ActionDescription: "actiondescription",
	ActionDetails:     "actiondetails",
	Timestamp:         "timestamp",
}
