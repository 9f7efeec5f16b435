package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/config"
)

func GetListsCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "lists",
		Aliases: []string{"l"},
		Usage:   "Eligibility list commands",
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Append every list in a YAML file, as the sale owner",
				ArgsUsage: "<file>",
				Action:    ListsLoad,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "skip the confirmation prompt",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print one tier's list",
				ArgsUsage: "<owner|tier_a|tier_b|tier_c|tier_d>",
				Action:    ListsShow,
			},
		},
	}
}

func ListsLoad(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("usage: mintd lists load <file>")
	}
	lists, err := config.LoadAllowlists(cmd.Args().First())
	if err != nil {
		return err
	}

	engine, st, sale, err := App.openSaleEngine()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, tier := range allowlist.Listed {
		if n := len(lists[tier]); n > 0 {
			fmt.Printf("%-7s +%d\n", tier, n)
		}
	}
	if !cmd.Bool("yes") {
		if _, err := yesNo(fmt.Sprintf("Append these entries as %s", sale.Owner)); err != nil {
			return errors.New("aborted")
		}
	}
	return engine.LoadAllowlists(ctx, sale.Owner, lists)
}

func ListsShow(ctx context.Context, cmd *cli.Command) error {
	tier, err := allowlist.ParseTier(cmd.Args().First())
	if err != nil {
		return err
	}
	engine, st, _, err := App.openSaleEngine()
	if err != nil {
		return err
	}
	defer st.Close()

	l, err := engine.List(tier)
	if err != nil {
		return err
	}
	for _, id := range l {
		fmt.Println(id)
	}
	return nil
}

func GetStatusCmdOpts() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Print the sale phase, supply and list sizes",
		Action: Status,
	}
}

func Status(ctx context.Context, cmd *cli.Command) error {
	engine, st, _, err := App.openSaleEngine()
	if err != nil {
		return err
	}
	defer st.Close()

	status, err := engine.Status()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func yesNo(prompt string) (string, error) {
	return (&promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}).Run()
}
