package files

import "time"

// FileRecord describes a single stored object. It mirrors the storage
// service's object metadata and is never persisted by this application.
type FileRecord struct {
	// Key is the full object key inside the bucket.
	Key string `json:"key"`
	// Size is the object size in bytes.
	Size int64 `json:"size"`
	// LastModified is the object's last modification time as reported by the service.
	LastModified time.Time `json:"last_modified"`
	// URL is a presigned download URL. Omitted by the no-URL listing variant.
	URL string `json:"url,omitempty"`
}
