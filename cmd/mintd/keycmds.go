package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/httpapi"
	"github.com/bitfsorg/libmint-go/wallet"
)

func (a *MintApp) keyFilePath() string {
	return filepath.Join(a.cfg.DataDir, wallet.KeyFileName)
}

func GetKeysCmdOpts() *cli.Command {
	return &cli.Command{
		Name:    "keys",
		Aliases: []string{"k"},
		Usage:   "Treasury key commands",
		Commands: []*cli.Command{
			{
				Name:   "new",
				Usage:  "Generate a treasury mnemonic and write the encrypted key file",
				Action: KeysNew,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "words",
						Usage: "mnemonic length, 12 or 24",
						Value: 24,
					},
				},
			},
			{
				Name:   "address",
				Usage:  "Print the treasury address that funds settlements",
				Action: KeysAddress,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "index",
						Usage: "treasury key index",
					},
				},
			},
		},
	}
}

// readPassword uses MINT_TREASURY_PASS when set, otherwise prompts on the
// terminal.
func readPassword(prompt string, confirm bool) (string, error) {
	if pw := os.Getenv(EnvTreasuryPass); pw != "" {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal: set %s", EnvTreasuryPass)
	}
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if confirm {
		fmt.Fprint(os.Stderr, "Repeat passphrase: ")
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		if string(again) != string(pw) {
			return "", errors.New("passphrases do not match")
		}
	}
	if len(pw) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(pw), nil
}

func KeysNew(ctx context.Context, cmd *cli.Command) error {
	bits := wallet.Mnemonic24Words
	if cmd.Uint("words") == 12 {
		bits = wallet.Mnemonic12Words
	}
	netCfg, err := wallet.GetNetwork(App.cfg.Network)
	if err != nil {
		return err
	}
	if err := App.ensureDataDir(); err != nil {
		return err
	}

	mnemonic, err := wallet.GenerateMnemonic(bits)
	if err != nil {
		return err
	}
	pw, err := readPassword("Treasury passphrase: ", true)
	if err != nil {
		return err
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}
	if err := wallet.WriteKeyFile(App.keyFilePath(), seed, pw); err != nil {
		return err
	}
	w, err := wallet.NewWallet(seed, netCfg)
	if err != nil {
		return err
	}
	kp, err := w.TreasuryKey(0)
	if err != nil {
		return err
	}
	addr, err := w.Address(kp)
	if err != nil {
		return err
	}

	fmt.Println("Write down this mnemonic. It is the only backup of the treasury key:")
	fmt.Println()
	fmt.Println(mnemonic)
	fmt.Println()
	fmt.Println("key file:", App.keyFilePath())
	fmt.Println("address: ", addr)
	return nil
}

func KeysAddress(ctx context.Context, cmd *cli.Command) error {
	netCfg, err := wallet.GetNetwork(App.cfg.Network)
	if err != nil {
		return err
	}
	pw, err := readPassword("Treasury passphrase: ", false)
	if err != nil {
		return err
	}
	w, err := wallet.OpenKeyFile(App.keyFilePath(), pw, netCfg)
	if err != nil {
		return err
	}
	index := cmd.Uint("index")
	if index > wallet.MaxKeyIndex {
		return fmt.Errorf("index %d out of range", index)
	}
	kp, err := w.TreasuryKey(uint32(index))
	if err != nil {
		return err
	}
	addr, err := w.Address(kp)
	if err != nil {
		return err
	}
	fmt.Println(kp.Path, addr)
	return nil
}

func GetAuthCmdOpts() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Access token commands",
		Commands: []*cli.Command{
			{
				Name:      "token",
				Usage:     "Issue a bearer token for an account",
				ArgsUsage: "<account>",
				Action:    AuthToken,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "token lifetime",
						Value: 24 * time.Hour,
					},
				},
			},
		},
	}
}

func AuthToken(ctx context.Context, cmd *cli.Command) error {
	secret := os.Getenv(EnvJWTSecret)
	if len(secret) < 32 {
		return fmt.Errorf("%s must hold at least 32 bytes", EnvJWTSecret)
	}
	caller, err := account.Parse(cmd.Args().First())
	if err != nil {
		return err
	}
	tok, err := httpapi.NewTokenService([]byte(secret), "").IssueToken(caller, cmd.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
