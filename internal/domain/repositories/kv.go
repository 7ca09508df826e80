package repositories

import "context"

// KVStore is the persistence collaborator. Values are opaque bytes; the
// content store owns their encoding.
type KVStore interface {
	// Load returns the value for key. found is false when the key is absent;
	// err is reserved for backend failures.
	Load(ctx context.Context, key string) (value []byte, found bool, err error)

	// Store writes value under key, replacing any previous value.
	Store(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Keys used by the content and project stores.
const (
	ProjectsKey = "projects"
)

// ProjectKey is the key of a project's content bundle.
func ProjectKey(projectID string) string {
	return "project:" + projectID
}

// QuarantineKey holds the raw bytes of a bundle that failed to decode.
func QuarantineKey(projectID string) string {
	return "project:" + projectID + ":corrupt"
}
