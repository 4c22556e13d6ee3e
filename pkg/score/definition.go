package score

import (
	"errors"
	"fmt"
)

// Definition holds the level counts of one configuration. All scores it
// produces are compatible with each other.
type Definition struct {
	HardLevels int `json:"hard" yaml:"hard"`
	SoftLevels int `json:"soft" yaml:"soft"`
}

// NewDefinition validates the level counts.
func NewDefinition(hardLevels, softLevels int) (*Definition, error) {
	d := &Definition{HardLevels: hardLevels, SoftLevels: softLevels}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Definition) Validate() error {
	if d == nil {
		return errors.New("score definition required")
	}
	if d.HardLevels < 0 || d.SoftLevels < 0 {
		return fmt.Errorf("level counts must not be negative: hard=%d, soft=%d", d.HardLevels, d.SoftLevels)
	}
	return nil
}

func (d *Definition) LevelsCount() int {
	return d.HardLevels + d.SoftLevels
}

// FeasibleLevelsCount is the number of levels that decide feasibility.
func (d *Definition) FeasibleLevelsCount() int {
	return d.HardLevels
}

func (d *Definition) Zero() Bendable {
	return Zero(d.HardLevels, d.SoftLevels)
}

// LevelLabels returns "hard 0 score", ..., "soft 0 score", ... in level order.
func (d *Definition) LevelLabels() []string {
	labels := make([]string, 0, d.LevelsCount())
	for i := 0; i < d.HardLevels; i++ {
		labels = append(labels, fmt.Sprintf("%s %d score", hardLabel, i))
	}
	for i := 0; i < d.SoftLevels; i++ {
		labels = append(labels, fmt.Sprintf("%s %d score", softLabel, i))
	}
	return labels
}

func (d *Definition) IsCompatible(s Bendable) bool {
	return s.HardLevelsCount() == d.HardLevels && s.SoftLevelsCount() == d.SoftLevels
}

// Parse parses s and rejects it when its level counts don't match d.
func (d *Definition) Parse(s string) (Bendable, error) {
	v, err := Parse(s)
	if err != nil {
		return Bendable{}, err
	}
	if !d.IsCompatible(v) {
		return Bendable{}, &ParseError{
			Input:   s,
			Token:   fmt.Sprintf("%d hard, %d soft", v.HardLevelsCount(), v.SoftLevelsCount()),
			Message: fmt.Sprintf("expected %d hard and %d soft levels", d.HardLevels, d.SoftLevels),
		}
	}
	return v, nil
}

// FromLevelNumbers is the inverse of Bendable.ToLevelNumbers.
func (d *Definition) FromLevelNumbers(initScore int32, levels []int32) (Bendable, error) {
	if len(levels) != d.LevelsCount() {
		return Bendable{}, fmt.Errorf("%w: got %d level numbers, definition has %d", ErrIncompatible, len(levels), d.LevelsCount())
	}
	return OfUninitialized(initScore, clone(levels[:d.HardLevels]), clone(levels[d.HardLevels:])), nil
}

func (d *Definition) String() string {
	return fmt.Sprintf("%d hard/%d soft", d.HardLevels, d.SoftLevels)
}
