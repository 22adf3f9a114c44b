package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source supplies the randomness of a roll.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Perm returns a permutation of [0, n).
	Perm(n int) []int
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewSeededSource returns a deterministic PCG source for seed.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a PCG source seeded from crypto/rand.
func NewRandomSource() (*rand.Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))), nil
}

// Script is a Source that replays a predetermined roll.
//
// Dice lists die identities (1-based) in draw order; Faces lists the face
// (1-based) for each position. Used by scenario tests to get byte-stable
// documents.
type Script struct {
	Dice  []int
	Faces []int

	next int
}

// Perm returns the scripted die order as 0-based indexes.
// n is ignored; the engine validates the result.
func (s *Script) Perm(n int) []int {
	out := make([]int, len(s.Dice))
	for i, d := range s.Dice {
		out[i] = d - 1
	}
	return out
}

// IntN returns the next scripted face as a 0-based index.
// Once the script is exhausted it returns n, which the engine rejects.
func (s *Script) IntN(n int) int {
	if s.next >= len(s.Faces) {
		return n
	}
	f := s.Faces[s.next] - 1
	s.next++
	return f
}
