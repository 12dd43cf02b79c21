package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"lifequest/internal/config"
	"lifequest/internal/errors"
	"lifequest/internal/llm"
	"lifequest/internal/ops"
	"lifequest/internal/token"
	"lifequest/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, client llm.Client) *cli.App {
	app := &cli.App{
		Name:    "lifequest",
		Usage:   "Turn your days into character growth",
		Version: Version,
		Commands: []*cli.Command{
			reflectCmd(db, cfg, client),
			analyzeCmd(db, cfg, client),
			profileCmd(db),
			historyCmd(db),
			showCmd(db),
			nameCmd(db),
			earnCmd(db),
			resetCmd(db),
			uiCmd(db, cfg, client),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// reflectCmd creates the reflect command.
func reflectCmd(db *sql.DB, cfg *config.Config, client llm.Client) *cli.Command {
	return &cli.Command{
		Name:      "reflect",
		Usage:     "Submit a journal entry about your day (1 token)",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" && stdinHasData() {
				stdinText, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				text = stdinText
			}
			if text == "" {
				return outputError(errors.NewMissingInput("text"))
			}
			if client == nil {
				return outputError(errors.NewNotConfigured())
			}

			output, err := ops.Reflect(c.Context, db, cfg, client, ops.ReflectInput{Text: text})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd(db *sql.DB, cfg *config.Config, client llm.Client) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Run a deep character analysis (5 tokens)",
		Action: func(c *cli.Context) error {
			if client == nil {
				return outputError(errors.NewNotConfigured())
			}

			output, err := ops.Analyze(c.Context, db, cfg, client)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// profileCmd creates the profile command.
func profileCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the character sheet",
		Action: func(c *cli.Context) error {
			output, err := ops.Profile(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past reflections and analyses",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum records to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Number of records to skip"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type: reflection|character_analysis"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
				Type:   c.String("type"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one history record by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Show(db, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// nameCmd creates the name command.
func nameCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "name",
		Usage:     "Set the character's display name",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			output, err := ops.SetName(db, ops.SetNameInput{
				Name: strings.Join(c.Args().Slice(), " "),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// earnCmd creates the earn command.
func earnCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "earn",
		Usage: "Claim a bonus token reward, if one is ready",
		Action: func(c *cli.Context) error {
			output, err := ops.Earn(db, token.NewPromoSource())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Wipe the profile and all history (irreversible)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the wipe"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("pass --yes to confirm the wipe"))
			}

			output, err := ops.Reset(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// uiCmd creates the ui command.
func uiCmd(db *sql.DB, cfg *config.Config, client llm.Client) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8922, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, client, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// outputJSON formats output as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if qErr, ok := err.(*errors.QuestError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", qErr.Code, qErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
