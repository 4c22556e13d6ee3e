package score

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scoredSolution struct {
	Name  string   `json:"name" yaml:"name"`
	Score Bendable `json:"score" yaml:"score"`
}

func TestJSON(t *testing.T) {
	in := scoredSolution{Name: "a", Score: OfUninitialized(-1, levels(-2, 0), levels(3))}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","score":"-1init[-2/0]hard/[3]soft"}`, string(b))

	var out scoredSolution
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, out.Score.Equal(in.Score))
}

func TestJSON_Invalid(t *testing.T) {
	var out scoredSolution
	err := json.Unmarshal([]byte(`{"score":"[x]hard/[]soft"}`), &out)
	assert.ErrorIs(t, err, ErrParse)
}

func TestYAML(t *testing.T) {
	in := scoredSolution{Name: "a", Score: OfUninitialized(-1, levels(-2, 0), levels(3))}

	b, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `score: "-1init[-2/0]hard/[3]soft"`)

	var out scoredSolution
	require.NoError(t, yaml.Unmarshal(b, &out))
	assert.True(t, out.Score.Equal(in.Score))
}

func TestYAML_Unquoted(t *testing.T) {
	var out scoredSolution
	err := yaml.Unmarshal([]byte("score: [1]hard/[2]soft\n"), &out)
	assert.Error(t, err)

	require.NoError(t, yaml.Unmarshal([]byte("score: 2init[1]hard/[2]soft\n"), &out))
	assert.Equal(t, "2init[1]hard/[2]soft", out.Score.String())
}

func TestSQL(t *testing.T) {
	s := Of(levels(1), levels(-2))
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1]hard/[-2]soft", v)

	var fromString Bendable
	require.NoError(t, fromString.Scan("[1]hard/[-2]soft"))
	assert.True(t, fromString.Equal(s))

	var fromBytes Bendable
	require.NoError(t, fromBytes.Scan([]byte("[1]hard/[-2]soft")))
	assert.True(t, fromBytes.Equal(s))

	var bad Bendable
	assert.ErrorIs(t, bad.Scan(nil), ErrParse)
	assert.ErrorIs(t, bad.Scan(42), ErrParse)
}
