package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mchmarny/bendable/pkg/score"
)

const (
	opAdd      = "add"
	opSubtract = "subtract"
	opMultiply = "multiply"
	opDivide   = "divide"
	opPower    = "power"
	opNegate   = "negate"
)

var (
	errUnknownOp = errors.New("unknown operation")

	binaryOps = []string{opAdd, opSubtract}
	scalarOps = []string{opMultiply, opDivide, opPower}
)

// ScoreView is the printable form of a score.
type ScoreView struct {
	Input     string  `json:"input,omitempty" yaml:"input,omitempty"`
	Score     string  `json:"score" yaml:"score"`
	Short     string  `json:"short" yaml:"short"`
	InitScore int32   `json:"init_score" yaml:"init_score"`
	Hard      []int32 `json:"hard" yaml:"hard"`
	Soft      []int32 `json:"soft" yaml:"soft"`
	Feasible  bool    `json:"feasible" yaml:"feasible"`
}

// Comparison is the result of ordering two scores.
type Comparison struct {
	A        string `json:"a" yaml:"a"`
	B        string `json:"b" yaml:"b"`
	Result   int    `json:"result" yaml:"result"`
	Relation string `json:"relation" yaml:"relation"`
}

func describe(input string, s score.Bendable) *ScoreView {
	return &ScoreView{
		Input:     input,
		Score:     s.String(),
		Short:     s.ShortString(),
		InitScore: s.InitScore(),
		Hard:      s.HardScores(),
		Soft:      s.SoftScores(),
		Feasible:  s.IsFeasible(),
	}
}

// parseScore parses with the definition when one is given.
func parseScore(def *score.Definition, v string) (score.Bendable, error) {
	v = strings.TrimSpace(v)
	if def != nil {
		return def.Parse(v)
	}
	return score.Parse(v)
}

func compareScores(def *score.Definition, a, b string) (*Comparison, error) {
	sa, err := parseScore(def, a)
	if err != nil {
		return nil, err
	}
	sb, err := parseScore(def, b)
	if err != nil {
		return nil, err
	}
	c, err := sa.Compare(sb)
	if err != nil {
		return nil, err
	}

	rel := "="
	switch {
	case c < 0:
		rel = "<"
	case c > 0:
		rel = ">"
	}
	return &Comparison{A: sa.String(), B: sb.String(), Result: c, Relation: rel}, nil
}

// calculate applies op to a, and to b or factor depending on the operation.
func calculate(def *score.Definition, op, a, b string, factor float64) (*ScoreView, error) {
	sa, err := parseScore(def, a)
	if err != nil {
		return nil, err
	}

	var res score.Bendable
	switch op {
	case opAdd, opSubtract:
		sb, err := parseScore(def, b)
		if err != nil {
			return nil, err
		}
		if op == opAdd {
			res, err = sa.Add(sb)
		} else {
			res, err = sa.Subtract(sb)
		}
		if err != nil {
			return nil, err
		}
	case opMultiply:
		res = sa.Multiply(factor)
	case opDivide:
		res = sa.Divide(factor)
	case opPower:
		res = sa.Power(factor)
	case opNegate:
		res = sa.Negate()
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownOp, op)
	}
	return describe("", res), nil
}
