// Package dice implements the dicing engine.
//
// A roll draws every die exactly once, in random order, and one face per die
// uniformly and independently:
//   - Die identity: sampled without replacement (a permutation of 1..9)
//   - Face: sampled with replacement (uniform over 1..6 per die)
//
// The draw order matters downstream: position decides which narrative
// section a token lands in, so the permutation is part of the result.
//
// Rolling is a pure function of the random Source, the catalog, the ID
// generator and the clock. Persistence is a separate step.
package dice
