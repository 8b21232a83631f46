// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, json, yaml, csv, markdown, text)",
		Value:   string(formatter.Table),
	}
}

func outputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write to a file instead of stdout",
	}
}

func urlFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "Profile location to mount, as printed by 'niagara heart'",
		Value: "/profile",
	}
}

// setupCommand handles setup operations for configuration and the local store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml with default settings",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the local store and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// eventsCommand lists the catalog with saved markers.
func eventsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "events",
		Aliases: []string{"ls"},
		Usage:   "List events, marking the ones you saved",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only show events in this category",
				Value: catalog.AllCategories,
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Match title or location",
			},
			formatFlag(),
			outputFlag(),
		},
		Action: r.Events,
	}
}

// heartCommand taps the heart on an event.
func heartCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "heart",
		Usage:     "Save or unsave an event",
		ArgsUsage: "<eventId>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "Location to return to after signing in",
				Value: "/",
			},
		},
		Action: r.Heart,
	}
}

// favoritesCommand lists saved events.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"favs"},
		Usage:   "List saved events",
		Flags: []cli.Flag{
			formatFlag(),
			outputFlag(),
		},
		Action: r.Favorites,
	}
}

// gateCommand shows the stored heart tap awaiting sign-in.
func gateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "gate",
		Usage: "Show the pending favorite and confirmation markers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Gate,
	}
}

// profileCommand visits the profile screen without signing in.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "profile",
		Usage:  "Open and leave the profile screen",
		Flags:  []cli.Flag{urlFlag()},
		Action: r.Profile,
	}
}

// signInCommand signs in from the profile screen.
func signInCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signin",
		Usage: "Sign in and upload favorites saved while signed out",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
			urlFlag(),
		},
		Action: r.SignIn,
	}
}

// signUpCommand creates an account from the profile screen.
func signUpCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account and upload favorites saved while signed out",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
			&cli.StringFlag{Name: "confirm", Usage: "Repeat the password", Required: true},
			urlFlag(),
		},
		Action: r.SignUp,
	}
}

func signOutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "signout",
		Usage:  "Forget the signed-in user",
		Action: r.SignOut,
	}
}

func whoAmICommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: r.WhoAmI,
	}
}

// serveCommand runs the development backend.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local events backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Backend database path (defaults to server.database_path)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive events browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/niagara-tui.log",
			},
		},
		Action: r.TUI,
	}
}
