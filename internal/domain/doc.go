// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (identifiers, keys, key windows, format errors),
// storage contracts and the sentinel errors callers match with errors.Is.
package domain
