package config

import "time"

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	MaxProjectTitleLength = 255

	// MaxItemTitleLength is the maximum length for binder item titles
	// (documents and containers alike).
	MaxItemTitleLength = 255

	// MaxThreadNameLength is the maximum length for narrative thread names.
	MaxThreadNameLength = 100

	// MaxImportBytes bounds a single imported project record.
	MaxImportBytes = 20 << 20

	// DefaultSaveDebounce is the quiet period after the last edit before
	// a project's content is written to the store.
	DefaultSaveDebounce = 2 * time.Second
)
