package outline

import "time"

// OutlineOptions configures the Outline function.
type OutlineOptions struct {
	// File is the file to analyze (required).
	File string

	// Language overrides detection by file extension (e.g., "go").
	Language string

	// Sort is "name" (default) or "line".
	Sort string
}

// SymbolsOptions configures the Outlines function.
type SymbolsOptions struct {
	// Language restricts the scan to one language.
	// If empty, every registered language is scanned.
	Language string

	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// Sort is "name" (default) or "line".
	Sort string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, defaults to 2 MiB.
	MaxBytes int64

	// NoGitignore includes files matched by Path/.gitignore.
	NoGitignore bool
}

// ScopeOptions configures the Scope function.
type ScopeOptions struct {
	// File is the file to analyze (required).
	File string

	// Language overrides detection by file extension.
	Language string

	// Line is the 1-based line to resolve (required).
	Line int
}

// WatchOptions configures the Watch function.
type WatchOptions struct {
	// File is the file to watch (required).
	File string

	// Language overrides detection by file extension.
	Language string

	// Sort is "name" (default) or "line".
	Sort string

	// Debounce is how long the file must stay quiet before a refresh.
	// If 0, defaults to 100ms.
	Debounce time.Duration
}
