package config

const (
	// DefaultDatabasePath is the default path of the reading server's database
	DefaultDatabasePath = "./bible-reader.db"

	// DefaultAPIURL is where the reader looks for the reading server
	DefaultAPIURL = "http://localhost:8190"
)
