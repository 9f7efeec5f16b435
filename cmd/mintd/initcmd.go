package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bitfsorg/libmint-go/config"
)

func GetInitCmdOpts() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Write a default config and sale file into the data directory",
		Action: Init,
	}
}

func Init(ctx context.Context, cmd *cli.Command) error {
	if err := App.ensureDataDir(); err != nil {
		return err
	}
	cfgPath := config.ConfigPath(App.cfg.DataDir)
	if err := writeIfMissing(cfgPath, func() error { return config.SaveConfig(cfgPath, App.cfg) }); err != nil {
		return err
	}
	return writeIfMissing(App.cfg.SalePath(), func() error { return config.SaveSale(App.cfg.SalePath(), config.DefaultSale()) })
}

func writeIfMissing(path string, write func() error) error {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		App.logger.Info("keeping existing file", "path", path)
		return nil
	}
	if err := write(); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
