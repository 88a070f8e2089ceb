package config

const (
	// DefaultDatabasePath is the default path for the vocabulary database
	DefaultDatabasePath = "./hanzi.db"

	// DefaultMaxFileSize bounds a single uploaded dictionary file (10 MiB)
	DefaultMaxFileSize = 10 << 20

	// DefaultMaxFiles bounds the files accepted by one multi-file upload
	DefaultMaxFiles = 10

	// DefaultBcryptCost is used for password hashes
	DefaultBcryptCost = 12

	// DefaultMinPasswordLength is the shortest password accepted, in characters
	DefaultMinPasswordLength = 12

	// MinJWTSecretLength is the shortest HMAC secret accepted in jwt mode
	MinJWTSecretLength = 32
)
