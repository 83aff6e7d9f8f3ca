package ports

import "context"

// BlobStore is content-addressed: Put returns the key the bytes are stored
// under, and putting the same bytes twice yields the same key. Hash computes
// that key without storing anything.
type BlobStore interface {
	Hash(data []byte) string
	Put(ctx context.Context, data []byte) (string, error)
	Has(ctx context.Context, hash string) (bool, error)
	Delete(ctx context.Context, hash string) error
}
