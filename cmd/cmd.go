// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "password",
		Aliases:  []string{"p"},
		Usage:    "Account password",
		Required: true,
	}
}

func imageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "image",
		Aliases: []string{"i"},
		Usage:   "Path to an image attached to the task",
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if needed, initialize the database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show configuration, backend and migration state",
				Action: r.SetupStatus,
			},
		},
	}
}

// authCommand handles sign-up, sign-in and the stored session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:      "signup",
				Usage:     "Create an account and sign in (usernames starting with demo- stay local)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     []cli.Flag{passwordFlag()},
				Action:    r.AuthSignUp,
			},
			{
				Name:      "login",
				Usage:     "Sign in and store the session",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     []cli.Flag{passwordFlag()},
				Action:    r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user",
				Action: r.AuthStatus,
			},
		},
	}
}

// listsCommand handles list operations
func listsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lists",
		Usage: "Task list operations",
		Commands: []*cli.Command{
			{
				Name:  "ls",
				Usage: "Show your lists with their progress",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Fuzzy-match list titles",
					},
					jsonFlag(),
				},
				Action: r.ListsList,
			},
			{
				Name:      "show",
				Usage:     "Show the tasks of a list",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Task filter: all, active or completed",
						Value:   "all",
					},
					jsonFlag(),
				},
				Action: r.ListsShow,
			},
			{
				Name:      "create",
				Usage:     "Create a list",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Action:    r.ListsCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "title"},
				},
				Action: r.ListsRename,
			},
			{
				Name:      "rm",
				Usage:     "Delete a list and its tasks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.ListsDelete,
			},
			{
				Name:   "purge",
				Usage:  "Delete every list you own",
				Action: r.ListsPurge,
			},
		},
	}
}

// tasksCommand handles task operations
func tasksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"todo"},
		Usage:   "Task operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a task to a list",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "list"},
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					imageFlag(),
					&cli.BoolFlag{
						Name:  "done",
						Usage: "Create the task as completed",
					},
				},
				Action: r.TasksAdd,
			},
			{
				Name:      "done",
				Usage:     "Mark a task as completed",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.TasksDone,
			},
			{
				Name:      "undo",
				Usage:     "Mark a task as not completed",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.TasksUndo,
			},
			{
				Name:  "edit",
				Usage: "Replace a task's title and image",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "title"},
				},
				Flags:  []cli.Flag{imageFlag()},
				Action: r.TasksEdit,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.TasksDelete,
			},
		},
	}
}

// exportCommand writes every list to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export your lists to JSON, Markdown or text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, markdown or txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: <username>-lists-<timestamp>.<ext>)",
			},
		},
		Action: r.Export,
	}
}

// accountCommand handles account removal
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Account operations",
		Commands: []*cli.Command{
			{
				Name:  "delete",
				Usage: "Delete your account, every list you own and the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm the deletion",
					},
				},
				Action: r.AccountDelete,
			},
		},
	}
}

// demoCommand inspects the in-memory demo backend
func demoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Demo backend operations",
		Commands: []*cli.Command{
			{
				Name:   "dump",
				Usage:  "Print the demo store's users and lists as JSON",
				Action: r.DemoDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive list management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive list browser",
		Action:  r.TUI,
	}
}
