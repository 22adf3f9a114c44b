package dice

import "github.com/google/uuid"

// IDGenerator generates unique request IDs.
// Implemented by UUIDv7Generator; tests use testutil.SequenceIDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 request IDs.
//
// UUIDv7 embeds a millisecond timestamp in the most significant bits plus
// random bits, so IDs sort by creation time but never collide when two
// stories are rolled within the same second.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
