package score

import "fmt"

// ValidateCompatible returns an error wrapping ErrIncompatible unless a and b
// have the same number of hard levels and the same number of soft levels.
func ValidateCompatible(a, b Bendable) error {
	if a.HardLevelsCount() == b.HardLevelsCount() && a.SoftLevelsCount() == b.SoftLevelsCount() {
		return nil
	}
	return fmt.Errorf("%w: score (%s) with %d hard and %d soft levels is not compatible with score (%s) with %d hard and %d soft levels",
		ErrIncompatible,
		a, a.HardLevelsCount(), a.SoftLevelsCount(),
		b, b.HardLevelsCount(), b.SoftLevelsCount())
}
