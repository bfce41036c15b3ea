// Package blob stores uploaded event images outside the database.
package blob

import (
	"context"
)

// Store keeps opaque media blobs addressed by a reference it assigns.
// Every method may fail transiently.
//
//go:generate go run go.uber.org/mock/mockgen -source=blob.go -destination=mocks/mock.go
type Store interface {
	// Save writes data and returns its reference; ext is the file extension without dot
	Save(ctx context.Context, data []byte, ext string) (string, error)

	// Fetch returns the blob, reporting false when it is absent
	Fetch(ctx context.Context, ref string) ([]byte, bool, error)

	// Delete removes the blob, reporting false when it was already absent
	Delete(ctx context.Context, ref string) (bool, error)
}
