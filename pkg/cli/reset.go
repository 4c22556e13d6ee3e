package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/bendable/pkg/store"
	"github.com/urfave/cli/v3"
)

const yesFlagName = "yes"

func newResetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete the local score history database and start fresh",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  yesFlagName,
				Usage: "Do not ask for confirmation",
			},
		},
		Action: cmdReset,
	}
}

func cmdReset(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if d := cfg.Config.Store.Driver; d != "" && d != store.DriverSQLite {
		return fmt.Errorf("reset only supports the %s store, use 'history reset' for %s", store.DriverSQLite, d)
	}

	dbPath := cfg.Config.Store.DSN
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Dir, store.DataFileName)
	}

	if !cmd.Bool(yesFlagName) {
		fmt.Fprintf(cfg.Out, "This will permanently delete all scores in %s\n", dbPath)
		fmt.Fprint(cfg.Out, "Are you sure? [y/N]: ")

		answer, err := bufio.NewReader(cfg.In).ReadString('\n')
		if err != nil && answer == "" {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(cfg.Out, "Aborted.")
			return nil
		}
	}

	// close the DB before deleting the file
	if cfg.store != nil {
		cfg.store.Close()
		cfg.store = nil
	}

	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}
	slog.Info("database deleted", "path", dbPath)

	if _, err := cfg.Store(ctx); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}
	slog.Info("database re-initialized", "path", dbPath)
	fmt.Fprintln(cfg.Out, "Reset complete.")
	return nil
}
