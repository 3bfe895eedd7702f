// Package services implements the driving port interfaces.
// SearchService brings the search index and document store up from the
// cache or a fresh corpus build and answers paged, field-grouped queries.
// SettingsService reads and writes application settings.
//
// Services are pure Go and depend only on driven ports.
package services
