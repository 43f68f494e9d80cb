package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/chzyer/readline"
)

// runRepl is the supplemented interactive mode: the same dispatch table
// as the one-shot CLI, driven by a readline loop instead of os.Args.
// Idiom grounded on the teacher's fixclient/repl.go (readline.NewEx,
// strings.Fields tokenizing, switch-on-first-word dispatch).
func runRepl() error {
	a, err := newApp(defaultConfigPath)
	if err != nil {
		return err
	}

	completer := readline.NewPrefixCompleter(
		readline.PcItem("commit"),
		readline.PcItem("inherit"),
		readline.PcItem("deliver"),
		readline.PcItem("snapshot"),
		readline.PcItem("prove"),
		readline.PcItem("verify"),
		readline.PcItem("show",
			readline.PcItem("market", readline.PcItem("all")),
			readline.PcItem("snapshot"),
			readline.PcItem("report"),
		),
		readline.PcItem("export", readline.PcItem("snapshot")),
		readline.PcItem("version"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "zkpnl> ",
		HistoryFile:     "/tmp/zkpnl_history",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Printf("failed to create readline: %v", err)
		return err
	}
	defer rl.Close()

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		if parts[0] == "exit" {
			return nil
		}
		if parts[0] == "help" {
			fmt.Print(helpText)
			continue
		}
		if err := a.dispatch(ctx, parts); err != nil {
			fmt.Println("error:", err)
		}
	}
	return nil
}
