package main

// Exit codes
const (
	ExitSuccess      = 0 // Success, no zombie citations
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (no retraction database configured)
	ExitDataError    = 3 // Data error (unreadable document or retraction database)
	ExitZombiesFound = 4 // At least one cited paper has been retracted
	ExitCacheStale   = 5 // SQLite cache is older than the retraction database
)
