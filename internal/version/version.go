// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Offline sun/moon estimates, refresh generation guard, headless task edits
// 0.2.0 - SQLite task store, YAML config, shooting star toggle
// 0.1.0 - Initial release: clock, sky panel, starfield, task list
