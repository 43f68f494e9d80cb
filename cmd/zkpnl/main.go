package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0kPN1/zkpnl/internal/proof"
)

// defaultConfigPath mirrors original_source/src/constants.rs's
// ZKPNL_CONFIG_PATH.
const defaultConfigPath = "config.toml"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Print(helpText)
		return nil
	}

	if args[0] == "version" {
		fmt.Printf("version %s\nprotocol version %d\n", versionString, proof.ProtocolVersion)
		return nil
	}
	if args[0] == "repl" {
		return runRepl()
	}

	a, err := newApp(defaultConfigPath)
	if err != nil {
		return err
	}
	return a.dispatch(context.Background(), args)
}

// dispatch mirrors original_source/src/main.rs's match args.get(1)
// structure.
func (a *App) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "commit":
		return a.dispatchCommit(ctx, args[1:])
	case "inherit":
		if len(args) < 3 {
			fmt.Println("please specify symbol and quantity following format:\ninherit <symbol> <quantity>")
			return nil
		}
		qty, err := parseInt(args[2])
		if err != nil {
			return err
		}
		return a.cmdInherit(ctx, args[1], qty)
	case "deliver":
		if len(args) < 2 {
			fmt.Println("please specify symbol following format:\ndeliver <symbol>")
			return nil
		}
		return a.cmdDeliver(ctx, args[1])
	case "snapshot":
		return a.cmdSnapshot(ctx)
	case "prove":
		return a.cmdProve()
	case "verify":
		if len(args) > 1 {
			return a.cmdVerify(args[1])
		}
		return a.cmdVerifyAll()
	case "show":
		return a.dispatchShow(ctx, args[1:])
	case "export":
		if len(args) > 1 && args[1] == "snapshot" {
			return a.cmdExportSnapshot()
		}
		fmt.Print(helpText)
		return nil
	default:
		fmt.Print(helpText)
		return nil
	}
}

func (a *App) dispatchCommit(ctx context.Context, args []string) error {
	if len(args) < 3 {
		fmt.Print(helpText)
		return nil
	}
	symbol := args[0]
	qty, err := parseInt(args[1])
	if err != nil {
		return err
	}
	price, force, err := parseCommitPrice(args[2:])
	if err != nil {
		return err
	}
	return a.cmdCommit(ctx, symbol, qty, price, force)
}

func (a *App) dispatchShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Print(helpText)
		return nil
	}
	switch args[0] {
	case "market":
		if len(args) < 2 {
			fmt.Print(helpText)
			return nil
		}
		if args[1] == "all" {
			save := len(args) > 2 && args[2] == "save"
			return a.cmdShowMarketAll(ctx, save)
		}
		return a.cmdShowMarket(ctx, args[1])
	case "snapshot":
		return a.cmdShowSnapshot()
	case "report":
		return a.cmdShowReport(ctx, args[1:])
	default:
		fmt.Print(helpText)
		return nil
	}
}
