package score

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	initLabel = "init"
	hardLabel = "hard"
	softLabel = "soft"

	levelSeparator = "/"
)

// Bendable is a score with a configurable number of hard and soft int32 levels
// plus an init score. It is immutable: every operation returns a new value.
type Bendable struct {
	initScore int32
	hard      []int32
	soft      []int32
}

// Zero returns a score with all levels and the init score set to 0.
func Zero(hardLevels, softLevels int) Bendable {
	return Bendable{hard: make([]int32, hardLevels), soft: make([]int32, softLevels)}
}

// Of returns an initialized score. The slices must not be changed afterwards.
func Of(hard, soft []int32) Bendable {
	return OfUninitialized(0, hard, soft)
}

// OfUninitialized returns a score with the given init score.
// The slices must not be changed afterwards.
func OfUninitialized(initScore int32, hard, soft []int32) Bendable {
	if hard == nil {
		hard = []int32{}
	}
	if soft == nil {
		soft = []int32{}
	}
	return Bendable{initScore: initScore, hard: hard, soft: soft}
}

// InitScore is 0 for a fully initialized solution, negative otherwise.
func (s Bendable) InitScore() int32 {
	return s.initScore
}

func (s Bendable) HardLevelsCount() int {
	return len(s.hard)
}

func (s Bendable) SoftLevelsCount() int {
	return len(s.soft)
}

func (s Bendable) LevelsCount() int {
	return len(s.hard) + len(s.soft)
}

// HardScores returns a copy of the hard levels.
func (s Bendable) HardScores() []int32 {
	return clone(s.hard)
}

// SoftScores returns a copy of the soft levels.
func (s Bendable) SoftScores() []int32 {
	return clone(s.soft)
}

// HardScore returns hard level i. Higher is better.
func (s Bendable) HardScore(i int) int32 {
	if i < 0 || i >= len(s.hard) {
		panic(outOfRange(hardLabel, i, len(s.hard)))
	}
	return s.hard[i]
}

// SoftScore returns soft level i. Higher is better.
func (s Bendable) SoftScore(i int) int32 {
	if i < 0 || i >= len(s.soft) {
		panic(outOfRange(softLabel, i, len(s.soft)))
	}
	return s.soft[i]
}

// HardOrSoftScore addresses hard levels as 0..H-1 and soft levels as H..H+S-1.
func (s Bendable) HardOrSoftScore(level int) int32 {
	if level < 0 || level >= s.LevelsCount() {
		panic(outOfRange("hard or soft", level, s.LevelsCount()))
	}
	if level < len(s.hard) {
		return s.hard[level]
	}
	return s.soft[level-len(s.hard)]
}

// ToLevelNumbers returns the hard levels followed by the soft levels.
func (s Bendable) ToLevelNumbers() []int32 {
	levels := make([]int32, 0, s.LevelsCount())
	levels = append(levels, s.hard...)
	return append(levels, s.soft...)
}

func (s Bendable) ToInitializedScore() Bendable {
	if s.initScore == 0 {
		return s
	}
	return Bendable{hard: s.hard, soft: s.soft}
}

// WithInitScore sets the init score on a score that does not have one yet.
func (s Bendable) WithInitScore(initScore int32) (Bendable, error) {
	if s.initScore != 0 {
		return Bendable{}, fmt.Errorf("%w: score (%s) can't get init score %d", ErrInitScoreSet, s, initScore)
	}
	return Bendable{initScore: initScore, hard: s.hard, soft: s.soft}, nil
}

// IsFeasible reports whether the solution is fully initialized and breaks no hard constraint.
func (s Bendable) IsFeasible() bool {
	if s.initScore < 0 {
		return false
	}
	for _, v := range s.hard {
		if v < 0 {
			return false
		}
	}
	return true
}

func (s Bendable) Add(other Bendable) (Bendable, error) {
	if err := ValidateCompatible(s, other); err != nil {
		return Bendable{}, err
	}
	return s.combine(other, func(a, b int32) int32 { return a + b }), nil
}

func (s Bendable) Subtract(other Bendable) (Bendable, error) {
	if err := ValidateCompatible(s, other); err != nil {
		return Bendable{}, err
	}
	return s.combine(other, func(a, b int32) int32 { return a - b }), nil
}

// Multiply scales every level and floors the result toward negative infinity.
func (s Bendable) Multiply(factor float64) Bendable {
	return s.scale(func(v float64) float64 { return v * factor })
}

// Divide divides every level and floors the result toward negative infinity.
func (s Bendable) Divide(divisor float64) Bendable {
	return s.scale(func(v float64) float64 { return v / divisor })
}

// Power raises every level to exponent using math.Pow, then floors.
// Negative levels with fractional exponents yield NaN, which narrows to 0.
func (s Bendable) Power(exponent float64) Bendable {
	return s.scale(func(v float64) float64 { return math.Pow(v, exponent) })
}

func (s Bendable) Negate() Bendable {
	return s.mapLevels(func(v int32) int32 { return -v })
}

// Compare orders by init score, then hard levels, then soft levels.
// It returns -1, 0 or 1, or ErrIncompatible when the shapes differ.
func (s Bendable) Compare(other Bendable) (int, error) {
	if err := ValidateCompatible(s, other); err != nil {
		return 0, err
	}
	if s.initScore != other.initScore {
		return cmpInt32(s.initScore, other.initScore), nil
	}
	for i := range s.hard {
		if s.hard[i] != other.hard[i] {
			return cmpInt32(s.hard[i], other.hard[i]), nil
		}
	}
	for i := range s.soft {
		if s.soft[i] != other.soft[i] {
			return cmpInt32(s.soft[i], other.soft[i]), nil
		}
	}
	return 0, nil
}

// Equal does not validate compatibility: scores of a different shape are unequal.
func (s Bendable) Equal(other Bendable) bool {
	if len(s.hard) != len(other.hard) || len(s.soft) != len(other.soft) {
		return false
	}
	if s.initScore != other.initScore {
		return false
	}
	for i := range s.hard {
		if s.hard[i] != other.hard[i] {
			return false
		}
	}
	for i := range s.soft {
		if s.soft[i] != other.soft[i] {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal.
func (s Bendable) Hash() uint64 {
	b := make([]byte, 0, 4*(3+s.LevelsCount()))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s.hard)))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s.soft)))
	b = binary.LittleEndian.AppendUint32(b, uint32(s.initScore))
	for _, v := range s.hard {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	for _, v := range s.soft {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return xxhash.Sum64(b)
}

// String returns the canonical form, e.g. "-1init[-2/0]hard/[3]soft".
func (s Bendable) String() string {
	var b strings.Builder
	b.Grow(s.LevelsCount()*4 + 13)
	if s.initScore != 0 {
		b.WriteString(strconv.FormatInt(int64(s.initScore), 10))
		b.WriteString(initLabel)
	}
	writeGroup(&b, s.hard, hardLabel)
	b.WriteString(levelSeparator)
	writeGroup(&b, s.soft, softLabel)
	return b.String()
}

// ShortString omits the init score and any level group that is all zero.
// A score that is zero everywhere renders as "0".
func (s Bendable) ShortString() string {
	var b strings.Builder
	if s.initScore != 0 {
		b.WriteString(strconv.FormatInt(int64(s.initScore), 10))
		b.WriteString(initLabel)
	}
	wroteGroup := false
	for _, g := range []struct {
		levels []int32
		label  string
	}{{s.hard, hardLabel}, {s.soft, softLabel}} {
		if !anyNonZero(g.levels) {
			continue
		}
		if wroteGroup {
			b.WriteString(levelSeparator)
		}
		writeGroup(&b, g.levels, g.label)
		wroteGroup = true
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func (s Bendable) combine(other Bendable, op func(a, b int32) int32) Bendable {
	hard := make([]int32, len(s.hard))
	for i := range hard {
		hard[i] = op(s.hard[i], other.hard[i])
	}
	soft := make([]int32, len(s.soft))
	for i := range soft {
		soft[i] = op(s.soft[i], other.soft[i])
	}
	return Bendable{initScore: op(s.initScore, other.initScore), hard: hard, soft: soft}
}

func (s Bendable) mapLevels(op func(v int32) int32) Bendable {
	hard := make([]int32, len(s.hard))
	for i, v := range s.hard {
		hard[i] = op(v)
	}
	soft := make([]int32, len(s.soft))
	for i, v := range s.soft {
		soft[i] = op(v)
	}
	return Bendable{initScore: op(s.initScore), hard: hard, soft: soft}
}

func (s Bendable) scale(op func(v float64) float64) Bendable {
	return s.mapLevels(func(v int32) int32 {
		return narrow(math.Floor(op(float64(v))))
	})
}

// narrow converts like a double to int cast: NaN is 0 and overflow saturates.
func narrow(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

func cmpInt32(a, b int32) int {
	if a < b {
		return -1
	}
	return 1
}

func writeGroup(b *strings.Builder, levels []int32, label string) {
	b.WriteString("[")
	for i, v := range levels {
		if i > 0 {
			b.WriteString(levelSeparator)
		}
		b.WriteString(strconv.FormatInt(int64(v), 10))
	}
	b.WriteString("]")
	b.WriteString(label)
}

func anyNonZero(levels []int32) bool {
	for _, v := range levels {
		if v != 0 {
			return true
		}
	}
	return false
}

func clone(levels []int32) []int32 {
	c := make([]int32, len(levels))
	copy(c, levels)
	return c
}
