// Package story provides the shared types of the story-cube pipeline.
//
// This package contains type definitions and their validation only. All other
// internal packages import story; story imports nothing internal.
//
// Key constraints:
//   - A roll always has DiceCount draws with pairwise distinct dice
//   - Faces are 1-based, dice are 1-based, draw positions are 0-based
//   - Request IDs are opaque; Stamp is a display field only
//   - Genres and tokens are compared in Unicode NFC
package story
