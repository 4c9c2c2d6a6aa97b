package config

// Identity databases a query can address
const (
	DatabaseGroup  = "group"
	DatabasePasswd = "passwd"
	DatabaseShadow = "shadow"
)

// Functions a database can configure
const (
	FunctionGetAllEntries  = "get_all_entries"
	FunctionGetEntryByUID  = "get_entry_by_uid"
	FunctionGetEntryByGID  = "get_entry_by_gid"
	FunctionGetEntryByName = "get_entry_by_name"
)

// Placeholder tokens replaced in command arguments and environment
const (
	PlaceholderUID  = "<$uid>"
	PlaceholderGID  = "<$gid>"
	PlaceholderName = "<$name>"
)

// Databases lists every database in the order they are reported.
var Databases = []string{DatabaseGroup, DatabasePasswd, DatabaseShadow}

// Functions maps each database to the functions it supports. Shadow
// entries have no numeric id.
var Functions = map[string][]string{
	DatabaseGroup:  {FunctionGetAllEntries, FunctionGetEntryByGID, FunctionGetEntryByName},
	DatabasePasswd: {FunctionGetAllEntries, FunctionGetEntryByUID, FunctionGetEntryByName},
	DatabaseShadow: {FunctionGetAllEntries, FunctionGetEntryByName},
}

// PlaceholderFor returns the token substituted for function, or "" when the
// function takes no parameter.
func PlaceholderFor(function string) string {
	switch function {
	case FunctionGetEntryByUID:
		return PlaceholderUID
	case FunctionGetEntryByGID:
		return PlaceholderGID
	case FunctionGetEntryByName:
		return PlaceholderName
	}
	return ""
}
