package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"
	"slices"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/bitfsorg/libmint-go/config"
)

// Environment variables read outside the flag set.
const (
	EnvJWTSecret    = "MINT_JWT_SECRET"
	EnvTreasuryPass = "MINT_TREASURY_PASS"
)

var logLevel = new(slog.LevelVar)

// App is the process-wide application state, set up by initApp.
var App *MintApp

// MintApp holds the parsed configuration shared by every command.
type MintApp struct {
	cliCmd *cli.Command
	logger *slog.Logger
	cfg    config.Config
}

func newLogger(w *os.File, tty bool) *slog.Logger {
	if tty {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.MessageKey {
				a.Key = "message"
			} else if a.Key == slog.LevelKey && len(groups) == 0 {
				a.Key = "severity"
			}
			return a
		},
	}))
}

func initApp() *MintApp {
	logger := newLogger(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	slog.SetDefault(logger)

	loadEnvSettings()

	App = &MintApp{logger: logger}
	App.cliCmd = &cli.Command{
		Name:    "mintd",
		Usage:   "Capped, phase-gated token mint service",
		Version: getVersionInfo(),
		Before:  App.init,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "datadir",
				Usage:   "data directory holding the config, sale file, database and key file",
				Value:   config.DefaultDataDir(),
				Aliases: []string{"d"},
				Sources: cli.EnvVars("MINT_DATADIR"),
			},
			&cli.StringFlag{
				Name:    "envfile",
				Usage:   "extra env file to load",
				Aliases: []string{"e"},
				Sources: cli.EnvVars("MINT_ENVFILE"),
			},
			&cli.StringFlag{
				Name:    "network",
				Usage:   "BSV network used for settlement (mainnet, testnet, regtest)",
				Aliases: []string{"n"},
				Sources: cli.EnvVars("MINT_NETWORK"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Commands: []*cli.Command{
			GetInitCmdOpts(),
			GetServeCmdOpts(),
			GetListsCmdOpts(),
			GetStatusCmdOpts(),
			GetKeysCmdOpts(),
			GetAuthCmdOpts(),
		},
	}
	return App
}

// loadEnvSettings loads .env.local then .env; missing files are fine.
func loadEnvSettings() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
}

// init loads the node configuration once flags are parsed.
func (a *MintApp) init(ctx context.Context, cmd *cli.Command) error {
	if envfile := cmd.String("envfile"); envfile != "" {
		a.logger.InfoContext(ctx, "loading env file", "path", envfile)
		if err := godotenv.Load(envfile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	dataDir := cmd.String("datadir")
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
		cfg.DataDir = dataDir
	case err != nil:
		return err
	}
	if n := cmd.String("network"); n != "" {
		cfg.Network = n
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logLevel.Set(level)
	if cmd.Bool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logger = newLogger(f, false)
		slog.SetDefault(a.logger)
	}
	return nil
}

// ensureDataDir creates the data directory if missing.
func (a *MintApp) ensureDataDir() error {
	if _, err := os.Stat(a.cfg.DataDir); errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(a.cfg.DataDir, 0700)
	}
	return nil
}

// Version is replaced at build time for release builds.
var Version string

func getVersionInfo() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	rev := "(unknown)"
	if i := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool { return s.Key == "vcs.revision" }); i != -1 {
		rev = info.Settings[i].Value
		if len(rev) > 7 {
			rev = rev[:7]
		}
	}
	return fmt.Sprintf("%s %s", info.Main.Version, rev)
}
