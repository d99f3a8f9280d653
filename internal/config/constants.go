package config

const (
	// DefaultDatabasePath is the default SQLite database location.
	DefaultDatabasePath = "./bookstore.db"

	// DefaultSourceFile is the fallback feed path when PARSER_SOURCE_FILE is unset.
	DefaultSourceFile = "./books.json"

	// DefaultUploadsDir holds mirrored images served under /uploads.
	DefaultUploadsDir = "./public/uploads"
)
