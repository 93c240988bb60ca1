// Package constants provides shared constants used throughout the deskbridge codebase.
// This includes timeouts, default endpoints, file permissions, and log rotation
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to GitHub and Freshdesk
	DefaultHTTPTimeout = 30 * time.Second

	// StoreOperationTimeout bounds a single snapshot store statement
	StoreOperationTimeout = 5 * time.Second

	// ShutdownTimeout is how long cleanup may take after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Logging constants
const (
	// LogRotationSizeMB is the maximum size in megabytes of a log file before rotation
	LogRotationSizeMB = 10

	// LogRotationAgeDays is the maximum age in days of rotated log files
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Remote endpoint defaults
const (
	// DefaultGitHubAPIURL is the GitHub REST API root
	DefaultGitHubAPIURL = "https://api.github.com"

	// GitHubAcceptHeader is the media type requested from the GitHub API
	GitHubAcceptHeader = "application/vnd.github+json"

	// DefaultFreshdeskHost is the host suffix appended to a Freshdesk subdomain
	DefaultFreshdeskHost = "freshdesk.com"

	// FreshdeskAPIPath is the versioned API root on a Freshdesk host
	FreshdeskAPIPath = "/api/v2"
)

// Snapshot store constants
const (
	// SnapshotTableName is the table mirroring fetched GitHub profiles
	SnapshotTableName = "github_users"

	// DefaultSnapshotPath is the SQLite file used when a bare sqlite:// DSN has no path
	DefaultSnapshotPath = "deskbridge.db"
)
