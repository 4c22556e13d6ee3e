package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/bendable/pkg/config"
	"github.com/mchmarny/bendable/pkg/logging"
	"github.com/mchmarny/bendable/pkg/score"
	"github.com/mchmarny/bendable/pkg/store"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "bendable"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

const (
	debugFlagName   = "debug"
	configFlagName  = "config"
	formatFlagName  = "format"
	profileFlagName = "profile"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Commands and flags are built per app so that parsed state never leaks between runs.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  debugFlagName,
			Usage: "Prints verbose logs (optional, default: false)",
		},
		&cli.StringFlag{
			Name:  configFlagName,
			Usage: fmt.Sprintf("Config directory (optional, defaults to $HOME/.%s)", appName),
		},
		&cli.StringFlag{
			Name:  formatFlagName,
			Usage: "Output format [json, yaml]",
			Value: formatJSON,
		},
		&cli.StringFlag{
			Name:  profileFlagName,
			Usage: "Score profile (hard/soft level counts) from the config, enforced on every parsed score",
		},
	}
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := newApp(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Dir        string
	Config     *config.Config
	Definition *score.Definition
	Format     string
	In         io.Reader
	Out        io.Writer

	store *store.Store
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

// Store opens the configured score history database on first use.
func (c *appConfig) Store(ctx context.Context) (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}

	driver := c.Config.Store.Driver
	if driver == "" {
		driver = store.DriverSQLite
	}
	dsn := c.Config.Store.DSN
	if dsn == "" && driver == store.DriverSQLite {
		dsn = filepath.Join(c.Dir, store.DataFileName)
	}

	s, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := s.Init(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	c.store = s
	return s, nil
}

func (c *appConfig) encode(v any) error {
	if c.Format == formatYAML {
		e := yaml.NewEncoder(c.Out)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(c.Out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func newApp(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "CLI for parsing, comparing and tracking bendable multi-level scores",
		Writer:                out,
		Metadata:              map[string]any{},
		Flags:                 globalFlags(),
		Commands: []*cli.Command{
			newParseCmd(),
			newCompareCmd(),
			newCalcCmd(),
			newRankCmd(),
			newZeroCmd(),
			newProfilesCmd(),
			newHistoryCmd(),
			newServerCmd(),
			newResetCmd(),
			newRemoteCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			dir := cmd.String(configFlagName)
			if dir == "" {
				home, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving config dir: %w", err)
				}
				dir = home
			}

			cfg, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("reading config: %w", err)
			}

			level := cfg.LogLevel
			if cmd.Bool(debugFlagName) {
				level = "debug"
			}
			logging.SetDefaultCLILogger(level)

			var def *score.Definition
			if name := cmd.String(profileFlagName); name != "" {
				if def, err = cfg.Profile(name); err != nil {
					return ctx, err
				}
			}

			format := formatJSON
			if f := cmd.String(formatFlagName); f == formatYAML || f == "yml" {
				format = formatYAML
			}

			cmd.Metadata[appConfigKey] = &appConfig{
				Dir:        dir,
				Config:     cfg,
				Definition: def,
				Format:     format,
				In:         in,
				Out:        out,
			}
			slog.Debug("config loaded", "dir", dir, "profile", cmd.String(profileFlagName))
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			cfg, ok := cmd.Metadata[appConfigKey].(*appConfig)
			if !ok || cfg.store == nil {
				return nil
			}
			if err := cfg.store.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				return fmt.Errorf("closing store: %w", err)
			}
			return nil
		},
	}
}
