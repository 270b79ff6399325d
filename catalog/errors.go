package catalog

import "errors"

// ErrUpload is returned when the blob backend rejects a write.
var ErrUpload = errors.New("catalog: upload failed")

// ErrStore is returned when the record database rejects an operation.
var ErrStore = errors.New("catalog: store failure")

// ErrValidation is returned when a record violates the persistence
// contract (no screenshots, transient image URL). It signals a bug in
// the calling pipeline, not a user-facing condition.
var ErrValidation = errors.New("catalog: invalid record")

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("catalog: record not found")
