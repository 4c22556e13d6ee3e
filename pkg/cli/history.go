package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
)

const (
	runFlagName      = "run"
	feasibleFlagName = "feasible"
	limitFlagName    = "limit"

	historyLimitDefault = 20
)

func runFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     runFlagName,
		Usage:    "Solver run identifier",
		Required: true,
	}
}

func newHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Record and query the best scores of solver runs",
		Commands: []*cli.Command{
			{
				Name:      "record",
				Usage:     "Append scores to a run",
				ArgsUsage: "<score>...",
				Action:    cmdHistoryRecord,
				Flags:     []cli.Flag{runFlag()},
			},
			{
				Name:   "best",
				Usage:  "Print the best score of a run",
				Action: cmdHistoryBest,
				Flags: []cli.Flag{
					runFlag(),
					&cli.BoolFlag{
						Name:  feasibleFlagName,
						Usage: "Only consider feasible scores",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List the most recent scores of a run",
				Action: cmdHistoryList,
				Flags: []cli.Flag{
					runFlag(),
					&cli.IntFlag{
						Name:  limitFlagName,
						Usage: "Limits number of result returned",
						Value: historyLimitDefault,
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded runs",
				Action: cmdHistoryRuns,
			},
			{
				Name:   "reset",
				Usage:  "Delete the history of a run",
				Action: cmdHistoryReset,
				Flags:  []cli.Flag{runFlag()},
			},
		},
	}
}

func cmdHistoryRecord(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() == 0 {
		return fmt.Errorf("%w: at least one score required", errArgs)
	}
	st, err := cfg.Store(ctx)
	if err != nil {
		return err
	}

	run := cmd.String(runFlagName)
	recorded := 0
	for _, arg := range cmd.Args().Slice() {
		s, err := parseScore(cfg.Definition, arg)
		if err != nil {
			return err
		}
		if _, err := st.Record(ctx, run, s); err != nil {
			return fmt.Errorf("recording %s: %w", s, err)
		}
		recorded++
	}
	slog.Info("scores recorded", "run", run, "count", recorded)
	return cfg.encode(map[string]any{"run": run, "recorded": recorded})
}

func cmdHistoryBest(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	st, err := cfg.Store(ctx)
	if err != nil {
		return err
	}
	e, err := st.Best(ctx, cmd.String(runFlagName), cmd.Bool(feasibleFlagName))
	if err != nil {
		return err
	}
	return cfg.encode(e)
}

func cmdHistoryList(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	st, err := cfg.Store(ctx)
	if err != nil {
		return err
	}
	list, err := st.List(ctx, cmd.String(runFlagName), cmd.Int(limitFlagName))
	if err != nil {
		return err
	}
	return cfg.encode(list)
}

func cmdHistoryRuns(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	st, err := cfg.Store(ctx)
	if err != nil {
		return err
	}
	runs, err := st.Runs(ctx)
	if err != nil {
		return err
	}
	return cfg.encode(runs)
}

func cmdHistoryReset(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	st, err := cfg.Store(ctx)
	if err != nil {
		return err
	}
	run := cmd.String(runFlagName)
	n, err := st.Reset(ctx, run)
	if err != nil {
		return err
	}
	slog.Info("run history deleted", "run", run, "deleted", n)
	return cfg.encode(map[string]any{"run": run, "deleted": n})
}
