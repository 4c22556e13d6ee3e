package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/mchmarny/bendable/pkg/score"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	byFlagName   = "by"
	fileFlagName = "file"
	topFlagName  = "top"
	uniqFlagName = "unique"
)

var errArgs = errors.New("invalid arguments")

// RankedScore is one line of the rank output.
type RankedScore struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Line     int    `json:"line" yaml:"line"`
	Score    string `json:"score" yaml:"score"`
	Short    string `json:"short" yaml:"short"`
	Feasible bool   `json:"feasible" yaml:"feasible"`
}

// ProfileView describes one configured score definition.
type ProfileView struct {
	Name    string   `json:"name" yaml:"name"`
	Hard    int      `json:"hard" yaml:"hard"`
	Soft    int      `json:"soft" yaml:"soft"`
	Zero    string   `json:"zero" yaml:"zero"`
	Labels  []string `json:"labels" yaml:"labels"`
	Default bool     `json:"default" yaml:"default"`
}

func newParseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Aliases:   []string{"p"},
		Usage:     "Parse scores and print their canonical form, levels and feasibility",
		ArgsUsage: "<score>... (use -- before scores starting with -)",
		Action:    cmdParse,
	}
}

func cmdParse(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() == 0 {
		return fmt.Errorf("%w: at least one score required", errArgs)
	}

	list := make([]*ScoreView, 0, cmd.NArg())
	for _, arg := range cmd.Args().Slice() {
		s, err := parseScore(cfg.Definition, arg)
		if err != nil {
			return err
		}
		slog.Debug("score parsed", "score", s.ShortString())
		list = append(list, describe(arg, s))
	}
	return cfg.encode(list)
}

func newCompareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"c"},
		Usage:     "Compare two scores (-1: a is worse, 0: equal, 1: a is better)",
		ArgsUsage: "<a> <b>",
		Action:    cmdCompare,
	}
}

func cmdCompare(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() != 2 {
		return fmt.Errorf("%w: compare requires exactly two scores, got %d", errArgs, cmd.NArg())
	}
	res, err := compareScores(cfg.Definition, cmd.Args().Get(0), cmd.Args().Get(1))
	if err != nil {
		return err
	}
	return cfg.encode(res)
}

func newCalcCmd() *cli.Command {
	cmds := make([]*cli.Command, 0, len(binaryOps)+len(scalarOps)+1)
	for _, op := range binaryOps {
		cmds = append(cmds, &cli.Command{
			Name:      op,
			Usage:     fmt.Sprintf("%s two compatible scores level by level", op),
			ArgsUsage: "<a> <b>",
			Action:    calcAction(op, 2),
		})
	}
	for _, op := range scalarOps {
		cmds = append(cmds, &cli.Command{
			Name:      op,
			Usage:     fmt.Sprintf("%s every level and floor the result", op),
			ArgsUsage: "<score>",
			Action:    calcAction(op, 1),
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     byFlagName,
					Usage:    "Factor, divisor or exponent",
					Required: true,
				},
			},
		})
	}
	cmds = append(cmds, &cli.Command{
		Name:      opNegate,
		Usage:     "negate every level",
		ArgsUsage: "<score>",
		Action:    calcAction(opNegate, 1),
	})

	return &cli.Command{
		Name:     "calc",
		Usage:    "Score arithmetic",
		Commands: cmds,
	}
}

func calcAction(op string, args int) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		cfg := getConfig(cmd)
		if cmd.NArg() != args {
			return fmt.Errorf("%w: %s requires %d score(s), got %d", errArgs, op, args, cmd.NArg())
		}

		var factor float64
		if v := cmd.String(byFlagName); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: invalid --%s value %q: %w", errArgs, byFlagName, v, err)
			}
			factor = f
		}

		res, err := calculate(cfg.Definition, op, cmd.Args().Get(0), cmd.Args().Get(1), factor)
		if err != nil {
			return err
		}
		return cfg.encode(res)
	}
}

func newRankCmd() *cli.Command {
	return &cli.Command{
		Name:      "rank",
		Aliases:   []string{"r"},
		Usage:     "Rank scores best first (one per line from --file, or arguments)",
		ArgsUsage: "[score]...",
		Action:    cmdRank,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  fileFlagName,
				Usage: "File with one score per line (# comments and blank lines ignored)",
			},
			&cli.IntFlag{
				Name:  topFlagName,
				Usage: "Only print the best N scores (0 prints all)",
			},
			&cli.BoolFlag{
				Name:  uniqFlagName,
				Usage: "Drop scores equal to a better ranked one",
			},
		},
	}
}

type numberedLine struct {
	num  int
	text string
}

func cmdRank(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	var lines []numberedLine
	if path := cmd.String(fileFlagName); path != "" {
		l, err := readScoreLines(path)
		if err != nil {
			return err
		}
		lines = l
	}
	for i, a := range cmd.Args().Slice() {
		lines = append(lines, numberedLine{num: i + 1, text: a})
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: no scores to rank", errArgs)
	}

	ranked, err := rankLines(ctx, cfg.Definition, lines, cmd.Bool(uniqFlagName))
	if err != nil {
		return err
	}
	if top := cmd.Int(topFlagName); top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return cfg.encode(ranked)
}

// rankLines parses lines concurrently and returns them best first.
func rankLines(ctx context.Context, def *score.Definition, lines []numberedLine, unique bool) ([]*RankedScore, error) {
	scores := make([]score.Bendable, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, l := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := parseScore(def, l.text)
			if err != nil {
				return fmt.Errorf("line %d: %w", l.num, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 1; i < len(scores); i++ {
		if err := score.ValidateCompatible(scores[0], scores[i]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lines[i].num, err)
		}
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		c, _ := scores[b].Compare(scores[a])
		return c
	})

	seen := make(map[uint64][]score.Bendable)
	ranked := make([]*RankedScore, 0, len(scores))
	for _, i := range order {
		s := scores[i]
		if unique {
			if containsEqual(seen[s.Hash()], s) {
				continue
			}
			seen[s.Hash()] = append(seen[s.Hash()], s)
		}
		ranked = append(ranked, &RankedScore{
			Rank:     len(ranked) + 1,
			Line:     lines[i].num,
			Score:    s.String(),
			Short:    s.ShortString(),
			Feasible: s.IsFeasible(),
		})
	}
	slog.Debug("scores ranked", "count", len(ranked))
	return ranked, nil
}

func containsEqual(list []score.Bendable, s score.Bendable) bool {
	for _, v := range list {
		if v.Equal(s) {
			return true
		}
	}
	return false
}

func readScoreLines(path string) ([]numberedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []numberedLine
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		t := strings.TrimSpace(sc.Text())
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		lines = append(lines, numberedLine{num: n, text: t})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func newZeroCmd() *cli.Command {
	return &cli.Command{
		Name:   "zero",
		Usage:  "Print the zero score and level labels of the selected profile",
		Action: cmdZero,
	}
}

func cmdZero(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	def := cfg.Definition
	if def == nil {
		d, err := cfg.Config.Profile("")
		if err != nil {
			return err
		}
		def = d
	}
	return cfg.encode(&ProfileView{
		Name:   cmd.String(profileFlagName),
		Hard:   def.HardLevels,
		Soft:   def.SoftLevels,
		Zero:   def.Zero().String(),
		Labels: def.LevelLabels(),
	})
}

func newProfilesCmd() *cli.Command {
	return &cli.Command{
		Name:   "profiles",
		Usage:  "List the score profiles from the config",
		Action: cmdProfiles,
	}
}

func cmdProfiles(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	list := make([]*ProfileView, 0, len(cfg.Config.Profiles))
	for _, name := range cfg.Config.ProfileNames() {
		def := cfg.Config.Profiles[name]
		list = append(list, &ProfileView{
			Name:    name,
			Hard:    def.HardLevels,
			Soft:    def.SoftLevels,
			Zero:    def.Zero().String(),
			Labels:  def.LevelLabels(),
			Default: name == cfg.Config.DefaultProfile,
		})
	}
	return cfg.encode(list)
}
