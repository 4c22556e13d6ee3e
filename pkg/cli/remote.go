package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/bendable/pkg/net"
	"github.com/mchmarny/bendable/pkg/score"
	"github.com/urfave/cli/v3"
)

const (
	serverURLFlagName = "server"
	serverURLDefault  = "http://127.0.0.1:8080"
)

func newRemoteCmd() *cli.Command {
	return &cli.Command{
		Name:  "remote",
		Usage: "Run score operations against a running score server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  serverURLFlagName,
				Usage: "Score server base URL",
				Value: serverURLDefault,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "compare",
				Usage:     "Compare two scores on the server",
				ArgsUsage: "<score> <score>",
				Action:    cmdRemoteCompare,
			},
			{
				Name:      "rank",
				Usage:     "Rank scores on the server, best first",
				ArgsUsage: "<score>...",
				Action:    cmdRemoteRank,
			},
			{
				Name:      "record",
				Usage:     "Append a score to a run on the server",
				ArgsUsage: "<score>",
				Action:    cmdRemoteRecord,
				Flags:     []cli.Flag{runFlag()},
			},
			{
				Name:   "best",
				Usage:  "Print the best score of a run from the server",
				Action: cmdRemoteBest,
				Flags: []cli.Flag{
					runFlag(),
					&cli.BoolFlag{
						Name:  feasibleFlagName,
						Usage: "Only consider feasible scores",
					},
				},
			},
		},
	}
}

func remoteClient(cmd *cli.Command) (*net.Client, error) {
	return net.NewClient(cmd.String(serverURLFlagName))
}

// remoteScores parses args locally so malformed input never reaches the server.
func remoteScores(cfg *appConfig, args []string) ([]score.Bendable, error) {
	list := make([]score.Bendable, 0, len(args))
	for _, arg := range args {
		s, err := parseScore(cfg.Definition, arg)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func cmdRemoteCompare(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() != 2 {
		return fmt.Errorf("%w: exactly two scores required", errArgs)
	}
	list, err := remoteScores(cfg, cmd.Args().Slice())
	if err != nil {
		return err
	}
	c, err := remoteClient(cmd)
	if err != nil {
		return err
	}
	res, err := c.Compare(ctx, list[0], list[1])
	if err != nil {
		return err
	}
	return cfg.encode(map[string]any{"a": list[0].String(), "b": list[1].String(), "result": res})
}

func cmdRemoteRank(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() == 0 {
		return fmt.Errorf("%w: at least one score required", errArgs)
	}
	list, err := remoteScores(cfg, cmd.Args().Slice())
	if err != nil {
		return err
	}
	c, err := remoteClient(cmd)
	if err != nil {
		return err
	}
	best, sorted, err := c.Rank(ctx, list)
	if err != nil {
		return err
	}
	return cfg.encode(map[string]any{"best": best, "scores": sorted})
}

func cmdRemoteRecord(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: exactly one score required", errArgs)
	}
	s, err := parseScore(cfg.Definition, cmd.Args().First())
	if err != nil {
		return err
	}
	c, err := remoteClient(cmd)
	if err != nil {
		return err
	}
	e, err := c.Record(ctx, cmd.String(runFlagName), s)
	if err != nil {
		return err
	}
	return cfg.encode(e)
}

func cmdRemoteBest(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	c, err := remoteClient(cmd)
	if err != nil {
		return err
	}
	e, err := c.Best(ctx, cmd.String(runFlagName), cmd.Bool(feasibleFlagName))
	if err != nil {
		return err
	}
	return cfg.encode(e)
}
