package types

import "time"

// Image is the metadata record of one local image, keyed by its canonical ID.
// Field names follow the engine's inspect document.
type Image struct {
	ID           string    `json:"Id"`
	RepoTags     []string  `json:"RepoTags"`
	RepoDigests  []string  `json:"RepoDigests"`
	Created      time.Time `json:"Created"`
	Size         int64     `json:"Size"`
	Architecture string    `json:"Architecture"`
	Variant      string    `json:"Variant,omitempty"`
	Os           string    `json:"Os"`
}

// ListOptions narrows the universe of image IDs returned by a lister.
type ListOptions struct {
	// All includes intermediate (untagged) images.
	All bool
	// Filters are opaque "key=value" expressions passed to the engine.
	Filters []string
}
