package main

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/paths"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	resolver := paths.NewResolver(cfg.ScratchRoot)
	swaps := swap.New(resolver, cfg)
	states := wstate.New(resolver, cfg)

	sessionFlag := &cli.StringFlag{
		Name:     "session",
		Aliases:  []string{"s"},
		Usage:    "Session identifier",
		Required: true,
	}

	return &cli.App{
		Name:    "sidecar",
		Usage:   "Session memory and workflow state for Claude Code hooks",
		Version: Version,
		Commands: []*cli.Command{
			{
				Name:  "swap",
				Usage: "Inspect and maintain externalized tool outputs",
				Subcommands: []*cli.Command{
					swapListCmd(swaps, sessionFlag),
					swapShowCmd(swaps, sessionFlag),
					swapEvictCmd(swaps, sessionFlag),
				},
			},
			{
				Name:  "state",
				Usage: "Inspect and clear workflow state",
				Subcommands: []*cli.Command{
					stateShowCmd(states, sessionFlag),
					stateClearCmd(states, sessionFlag),
				},
			},
		},
	}
}

func swapListCmd(swaps *swap.Store, sessionFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List a session's swap index",
		Flags: []cli.Flag{sessionFlag},
		Action: func(c *cli.Context) error {
			return printJSON(swaps.Index(c.String("session")))
		},
	}
}

func swapShowCmd(swaps *swap.Store, sessionFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print an entry's exact content to stdout",
		Flags: []cli.Flag{
			sessionFlag,
			&cli.StringFlag{Name: "id", Usage: "Swap entry id", Required: true},
			&cli.BoolFlag{Name: "meta", Usage: "Print metadata instead of content"},
		},
		Action: func(c *cli.Context) error {
			session, id := c.String("session"), c.String("id")
			if c.Bool("meta") {
				entry, err := swaps.Entry(session, id)
				if err != nil {
					return err
				}
				return printJSON(entry)
			}
			content, err := swaps.Retrieve(session, id)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(content)
			return err
		},
	}
}

func swapEvictCmd(swaps *swap.Store, sessionFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "evict",
		Usage: "Prune expired entries, or remove everything with --all",
		Flags: []cli.Flag{
			sessionFlag,
			&cli.BoolFlag{Name: "all", Usage: "Full teardown (irreversible)"},
		},
		Action: func(c *cli.Context) error {
			session := c.String("session")
			if c.Bool("all") {
				if err := swaps.Teardown(session); err != nil {
					return err
				}
				fmt.Println("session storage removed")
				return nil
			}
			removed, err := swaps.Prune(session, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d entries\n", removed)
			return nil
		},
	}
}

func stateShowCmd(states *wstate.Store, sessionFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a session's workflow state",
		Flags: []cli.Flag{sessionFlag},
		Action: func(c *cli.Context) error {
			return printJSON(states.Load(c.String("session")))
		},
	}
}

func stateClearCmd(states *wstate.Store, sessionFlag *cli.StringFlag) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Return the session to idle (keeps swap entries and todo history)",
		Flags: []cli.Flag{sessionFlag},
		Action: func(c *cli.Context) error {
			state, err := states.Clear(c.String("session"))
			if err != nil {
				return err
			}
			return printJSON(state)
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
