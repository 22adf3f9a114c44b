package story

import "fmt"

// DrawError describes why a draw set violates the roll invariants.
type DrawError struct {
	Position int // -1 when the error concerns the whole set
	Message  string
}

func (e *DrawError) Error() string {
	if e.Position < 0 {
		return "invalid draws: " + e.Message
	}
	return fmt.Sprintf("invalid draws: position %d: %s", e.Position, e.Message)
}

// ValidateDraws checks that draws form one complete roll: DiceCount entries,
// every die in 1..DiceCount exactly once, faces in 1..FaceCount.
func ValidateDraws(draws []Draw) error {
	if len(draws) != DiceCount {
		return &DrawError{Position: -1, Message: fmt.Sprintf("got %d draws, want %d", len(draws), DiceCount)}
	}

	seen := make(map[int]bool, DiceCount)
	for i, d := range draws {
		if d.Die < 1 || d.Die > DiceCount {
			return &DrawError{Position: i, Message: fmt.Sprintf("die %d out of range 1..%d", d.Die, DiceCount)}
		}
		if d.Face < 1 || d.Face > FaceCount {
			return &DrawError{Position: i, Message: fmt.Sprintf("face %d out of range 1..%d", d.Face, FaceCount)}
		}
		if seen[d.Die] {
			return &DrawError{Position: i, Message: fmt.Sprintf("die %d drawn twice", d.Die)}
		}
		seen[d.Die] = true
	}
	return nil
}
