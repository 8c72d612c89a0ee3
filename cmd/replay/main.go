// Command replay reads a CSV of client transactions and prints every
// client's final balances as CSV on stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/app"
	"github.com/sheikh-saqib/toy-payments-ledger/internal/config"
	"gopkg.in/urfave/cli.v1"
)

func main() {
	if err := runCLI(os.Args, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCLI runs the replay command with args (program name first), writing
// the balances CSV to stdout.
func runCLI(args []string, stdout io.Writer) error {
	// The command declares no flags, so "--" makes every argument positional,
	// including paths that start with "-".
	argv := append([]string{args[0], "--"}, args[1:]...)
	return newApp(stdout).Run(argv)
}

func newApp(stdout io.Writer) *cli.App {
	cliApp := cli.NewApp()
	cliApp.Name = "replay"
	cliApp.Usage = "replay a transactions CSV and print final account balances"
	cliApp.ArgsUsage = "<transactions.csv>"
	cliApp.HideHelp = true
	cliApp.HideVersion = true
	cliApp.Writer = stdout
	cliApp.Action = func(c *cli.Context) error {
		return run(c.Args().First(), stdout)
	}
	return cliApp
}

func run(inputPath string, stdout io.Writer) error {
	if inputPath == "" {
		return errors.New("no input file supplied")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.New(cfg, logger, stdout).Run(ctx, inputPath)
}
