package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runApp(t *testing.T, dir, in string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(in), &out)
	err := app.Run(t.Context(), append([]string{appName, "--" + configFlagName, dir}, args...))
	return out.String(), err
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestParseCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, dir, "", "parse", "[-2/0]hard/[3]soft", "[0/0]hard/[0]soft")
	require.NoError(t, err)

	list := decodeOutput[[]ScoreView](t, out)
	require.Len(t, list, 2)
	assert.Equal(t, "[-2/0]hard/[3]soft", list[0].Score)
	assert.False(t, list[0].Feasible)
	assert.Equal(t, []int32{-2, 0}, list[0].Hard)
	assert.Equal(t, []int32{3}, list[0].Soft)
	assert.Equal(t, "0", list[1].Short)
	assert.True(t, list[1].Feasible)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestParseCmd_Invalid(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "", "parse", "[x]hard/[]soft")
	assert.ErrorIs(t, err, score.ErrParse)

	_, err = runApp(t, t.TempDir(), "", "parse")
	assert.ErrorIs(t, err, errArgs)
}

func TestParseCmd_Profile(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, dir, "", "--"+profileFlagName, "default", "parse", "[0/0]hard/[0]soft")
	assert.ErrorIs(t, err, score.ErrParse)

	out, err := runApp(t, dir, "", "--"+profileFlagName, "default", "parse", "[0]hard/[0]soft")
	require.NoError(t, err)
	assert.Contains(t, out, "[0]hard/[0]soft")

	_, err = runApp(t, dir, "", "--"+profileFlagName, "missing", "parse", "[0]hard/[0]soft")
	assert.Error(t, err)
}

func TestParseCmd_YAML(t *testing.T) {
	out, err := runApp(t, t.TempDir(), "", "--"+formatFlagName, "yaml", "parse", "[1]hard/[2]soft")
	require.NoError(t, err)

	var list []ScoreView
	require.NoError(t, yaml.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "[1]hard/[2]soft", list[0].Score)
}

func TestCompareCmd(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		a, b     string
		result   int
		relation string
	}{
		{"[0]hard/[1]soft", "[0]hard/[2]soft", -1, "<"},
		{"[1]hard/[-9]soft", "[0]hard/[9]soft", 1, ">"},
		{"[0]hard/[1]soft", "[0]hard/[1]soft", 0, "="},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			out, err := runApp(t, dir, "", "compare", tt.a, tt.b)
			require.NoError(t, err)
			c := decodeOutput[Comparison](t, out)
			assert.Equal(t, tt.result, c.Result)
			assert.Equal(t, tt.relation, c.Relation)
		})
	}
}

func TestCompareCmd_Incompatible(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "", "compare", "[0]hard/[0]soft", "[0/0]hard/[0]soft")
	assert.ErrorIs(t, err, score.ErrIncompatible)

	_, err = runApp(t, t.TempDir(), "", "compare", "[0]hard/[0]soft")
	assert.ErrorIs(t, err, errArgs)
}

func TestCalcCmd(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add", []string{"calc", "add", "[1]hard/[2]soft", "[3]hard/[4]soft"}, "[4]hard/[6]soft"},
		{"subtract", []string{"calc", "subtract", "[1]hard/[2]soft", "[3]hard/[4]soft"}, "[-2]hard/[-2]soft"},
		{"multiply floors", []string{"calc", "multiply", "--by", "0.5", "[-3]hard/[0]soft"}, "[-2]hard/[0]soft"},
		{"divide", []string{"calc", "divide", "--by", "2", "[-3]hard/[3]soft"}, "[-2]hard/[1]soft"},
		{"power", []string{"calc", "power", "--by", "2", "[-3]hard/[2]soft"}, "[9]hard/[4]soft"},
		{"negate", []string{"calc", "negate", "[-3]hard/[2]soft"}, "[3]hard/[-2]soft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, dir, "", tt.args...)
			require.NoError(t, err)
			v := decodeOutput[ScoreView](t, out)
			assert.Equal(t, tt.want, v.Score)
		})
	}
}

func TestCalcCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, dir, "", "calc", "add", "[1]hard/[2]soft", "[1/1]hard/[2]soft")
	assert.ErrorIs(t, err, score.ErrIncompatible)

	_, err = runApp(t, dir, "", "calc", "multiply", "--by", "abc", "[1]hard/[2]soft")
	assert.ErrorIs(t, err, errArgs)

	_, err = runApp(t, dir, "", "calc", "negate")
	assert.ErrorIs(t, err, errArgs)
}

func TestRankCmd(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scores.txt")
	content := strings.Join([]string{
		"# candidate scores",
		"[0/-5]hard/[100]soft",
		"",
		"-1init[0/0]hard/[0]soft",
		"[0/0]hard/[-10]soft",
		"[0/0]hard/[-3]soft",
		"[0/0]hard/[-3]soft",
	}, "\n")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))

	out, err := runApp(t, dir, "", "rank", "--file", file)
	require.NoError(t, err)
	ranked := decodeOutput[[]RankedScore](t, out)
	require.Len(t, ranked, 5)
	assert.Equal(t, "[0/0]hard/[-3]soft", ranked[0].Score)
	assert.Equal(t, 6, ranked[0].Line)
	assert.Equal(t, 7, ranked[1].Line)
	assert.Equal(t, "[0/0]hard/[-10]soft", ranked[2].Score)
	assert.Equal(t, "[0/-5]hard/[100]soft", ranked[3].Score)
	assert.Equal(t, "-1init[0/0]hard/[0]soft", ranked[4].Score)
	assert.Equal(t, 4, ranked[4].Line)

	out, err = runApp(t, dir, "", "rank", "--unique", "--top", "2", "--file", file)
	require.NoError(t, err)
	ranked = decodeOutput[[]RankedScore](t, out)
	require.Len(t, ranked, 2)
	assert.Equal(t, "[0/0]hard/[-3]soft", ranked[0].Score)
	assert.Equal(t, "[0/0]hard/[-10]soft", ranked[1].Score)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankCmd_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, dir, "", "rank", "[0]hard/[]soft", "[0/0]hard/[]soft")
	assert.ErrorIs(t, err, score.ErrIncompatible)

	_, err = runApp(t, dir, "", "rank", "[0]hard/[]soft", "nope")
	assert.ErrorIs(t, err, score.ErrParse)

	_, err = runApp(t, dir, "", "rank")
	assert.ErrorIs(t, err, errArgs)
}

func TestZeroAndProfilesCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := runApp(t, dir, "", "zero")
	require.NoError(t, err)
	p := decodeOutput[ProfileView](t, out)
	assert.Equal(t, "[0]hard/[0]soft", p.Zero)
	assert.Equal(t, []string{"hard 0 score", "soft 0 score"}, p.Labels)

	out, err = runApp(t, dir, "", "profiles")
	require.NoError(t, err)
	list := decodeOutput[[]ProfileView](t, out)
	require.Len(t, list, 1)
	assert.Equal(t, "default", list[0].Name)
	assert.True(t, list[0].Default)
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, dir, "", "history", "record", "--run", "r1",
		"[-1]hard/[10]soft", "[0]hard/[-4]soft", "[0]hard/[-9]soft")
	require.NoError(t, err)

	out, err := runApp(t, dir, "", "history", "best", "--run", "r1")
	require.NoError(t, err)
	best := decodeOutput[map[string]any](t, out)
	assert.Equal(t, "[0]hard/[-4]soft", best["score"])
	assert.Equal(t, true, best["feasible"])

	out, err = runApp(t, dir, "", "history", "list", "--run", "r1", "--limit", "2")
	require.NoError(t, err)
	list := decodeOutput[[]map[string]any](t, out)
	require.Len(t, list, 2)
	assert.Equal(t, "[0]hard/[-9]soft", list[0]["score"])

	out, err = runApp(t, dir, "", "history", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, `"run": "r1"`)

	_, err = runApp(t, dir, "", "history", "record", "--run", "r1", "[0/0]hard/[0]soft")
	assert.ErrorIs(t, err, score.ErrIncompatible)

	out, err = runApp(t, dir, "", "history", "reset", "--run", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, `"deleted": 3`)
}

func TestResetCmd(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, dir, "", "history", "record", "--run", "r1", "[0]hard/[0]soft")
	require.NoError(t, err)

	out, err := runApp(t, dir, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = runApp(t, dir, "y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset complete.")

	out, err = runApp(t, dir, "", "history", "runs")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}
