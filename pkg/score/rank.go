package score

import (
	"errors"
	"slices"
)

// ErrEmpty is returned by Max when given no scores.
var ErrEmpty = errors.New("no scores")

// Max returns the best score.
func Max(scores ...Bendable) (Bendable, error) {
	if len(scores) == 0 {
		return Bendable{}, ErrEmpty
	}
	best := scores[0]
	for _, s := range scores[1:] {
		c, err := s.Compare(best)
		if err != nil {
			return Bendable{}, err
		}
		if c > 0 {
			best = s
		}
	}
	return best, nil
}

// Sort orders scores in place, best first when desc is set. All scores must be
// compatible; on the first mismatch the slice is left untouched.
func Sort(scores []Bendable, desc bool) error {
	for i := 1; i < len(scores); i++ {
		if err := ValidateCompatible(scores[0], scores[i]); err != nil {
			return err
		}
	}
	slices.SortStableFunc(scores, func(a, b Bendable) int {
		c, _ := a.Compare(b)
		if desc {
			return -c
		}
		return c
	})
	return nil
}
