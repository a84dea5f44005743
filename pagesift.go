// Package pagesift provides adaptive content extraction for web pages.
// It orchestrates multiple competing extraction methods, ranks them by URL
// heuristics and historical success rates, and offloads CPU-heavy markup
// parsing to a bounded pool of background workers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., readability/, rod/, sqlite/).
package pagesift
