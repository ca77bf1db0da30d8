// Package files implements the file management feature.
//
// It provides a thin facade over remote object storage: every operation is a
// single blocking call to the storage service, logged on failure and returned
// to the caller without retries or translation.
//
// # Operations
//
//   - Upload: Stores raw content and returns a presigned download URL.
//   - Download: Streams an object's content with its size and stored content type.
//   - Delete: Removes a single object (idempotent for the caller).
//   - List / ListWithoutURLs: Enumerates objects under a prefix, with or
//     without presigned URL decoration. Single listing page only.
//   - PresignedURL: Produces a time-limited download URL (default 6 hours).
//   - Cleanup: Bulk-removes everything under a prefix (workspace teardown).
//
// # Components
//
//   - Service: Delegates operations to the shared storage client.
//   - Handler: Exposes the HTTP endpoints under /files.
//   - Feature: Registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - GET    /files?prefix=&urls= : List files.
//   - POST   /files/{key}         : Upload the request body.
//   - GET    /files/download/{key}: Download content.
//   - GET    /files/url/{key}     : Get a presigned URL (?expires=seconds).
//   - DELETE /files/{key}         : Delete one file.
//   - DELETE /files?prefix=       : Cleanup a prefix.
package files
