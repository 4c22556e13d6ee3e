package score

// Score is the capability shared by every score shape, so search code can
// stay generic over the concrete level structure.
type Score[S any] interface {
	InitScore() int32
	LevelsCount() int
	HardOrSoftScore(level int) int32
	IsFeasible() bool
	ToInitializedScore() S
	WithInitScore(initScore int32) (S, error)
	Add(other S) (S, error)
	Subtract(other S) (S, error)
	Multiply(factor float64) S
	Divide(divisor float64) S
	Power(exponent float64) S
	Negate() S
	Compare(other S) (int, error)
	Equal(other S) bool
	String() string
	ShortString() string
}

var _ Score[Bendable] = Bendable{}
