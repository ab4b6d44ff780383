package cmd

import (
	"fmt"
	"runtime"

	"github.com/artsyapp/artsy/cmd/common"
	"github.com/artsyapp/artsy/internal/config"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var (
	baseURL     string
	storageKind string
	debug       bool

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "base-url",
			Usage:       "server to talk to (env: ARTSY_BASE_URL)",
			Destination: &baseURL,
		},
		cli.StringFlag{
			Name:        "storage",
			Usage:       "cookie storage backend: file, sqlite, keyring or memory (env: ARTSY_STORAGE)",
			Destination: &storageKind,
		},
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "log HTTP traffic with secrets redacted (env: ARTSY_DEBUG)",
			Destination: &debug,
		},
	}
)

// newApp is replaced in tests.
var newApp = NewApp

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "artsy",
		HelpName:              "artsy",
		Usage:                 "Artsy account and favorites from the command line.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "artsy [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		CommandNotFound:       unknownCommand,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:                   "login",
				Usage:                  "sign in to your account",
				Description:            LoginDescription,
				UsageText:              "[--email <email>] [--password <password>]",
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 withApp("login", login),
				Flags:                  loginFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "register",
				Usage:                  "create an account and sign in",
				Description:            RegisterDescription,
				UsageText:              "[--username <name>] [--email <email>] [--password <password>]",
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 withApp("register", register),
				Flags:                  registerFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "logout",
				Usage:              "sign out of the current session",
				Description:        LogoutDescription,
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             withApp("logout", logout),
			},
			{
				Name:               "delete-account",
				Usage:              "permanently delete your account",
				Description:        DeleteAccountDescription,
				UsageText:          "[--yes]",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             withApp("delete-account", deleteAccount),
				Flags:              deleteFlags,
			},
			{
				Name:               "whoami",
				Aliases:            []string{"me"},
				Usage:              "show the signed-in user",
				Description:        WhoamiDescription,
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             withApp("whoami", whoami),
			},
			{
				Name:               "favorites",
				Aliases:            []string{"fav"},
				Usage:              "list and edit favorite artists",
				Description:        FavoritesDescription,
				CustomHelpTemplate: SUBCMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Subcommands: []cli.Command{
					{
						Name:               "list",
						Aliases:            []string{"ls"},
						Usage:              "list favorite artists",
						UsageText:          " ",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("favorites", listFavorites),
					},
					{
						Name:               "add",
						Usage:              "add an artist to favorites",
						UsageText:          "<artist-id>",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("favorites", addFavorite),
					},
					{
						Name:               "remove",
						Aliases:            []string{"rm"},
						Usage:              "remove an artist from favorites",
						UsageText:          "<artist-id>",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("favorites", removeFavorite),
					},
				},
			},
			{
				Name:               "cookies",
				Usage:              "inspect and manage stored cookies",
				Description:        CookiesDescription,
				CustomHelpTemplate: SUBCMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Subcommands: []cli.Command{
					{
						Name:               "list",
						Aliases:            []string{"ls"},
						Usage:              "list stored cookies",
						UsageText:          "[--show-values]",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("cookies", listCookies),
						Flags:              cookieListFlags,
					},
					{
						Name:               "import",
						Usage:              "import cookies from a browser or cookies.txt file",
						UsageText:          "<file>",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("cookies", importCookies),
					},
					{
						Name:               "export",
						Usage:              "write stored cookies in cookies.txt format",
						UsageText:          "<file>",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("cookies", exportCookies),
					},
					{
						Name:               "clear",
						Usage:              "remove every stored cookie",
						UsageText:          " ",
						CustomHelpTemplate: CMD_HELP_TEMPL,
						Action:             withApp("cookies", clearCookies),
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of artsy",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name, app.Version, runtime.GOOS, runtime.GOARCH, bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

// unknownCommand prints the application help and exits with status 1.
func unknownCommand(ctx *cli.Context, name string) {
	common.PrintErrWithHelp(ctx, fmt.Errorf("unknown command %q", name))
}

// loadConfig reads the environment and applies global flag overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ctx.GlobalIsSet("base-url") {
		cfg.BaseURL = baseURL
	}
	if ctx.GlobalIsSet("storage") {
		cfg.Storage = storageKind
	}
	if ctx.GlobalIsSet("debug") {
		cfg.Debug = debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type appAction func(ctx *cli.Context, a *App) error

// withApp builds the App for one command run and closes it afterwards.
func withApp(name string, fn appAction) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Args().First() == "help" {
			return cli.ShowCommandHelp(ctx, ctx.Command.Name)
		}
		cfg, err := loadConfig(ctx)
		if err != nil {
			common.PrintRuntimeErr(ctx, name, "load_config", err)
			return nil
		}
		a, err := newApp(cfg)
		if err != nil {
			common.PrintRuntimeErr(ctx, name, "init", err)
			return nil
		}
		defer func() {
			if err := a.Close(); err != nil {
				common.PrintRuntimeErr(ctx, name, "close", err)
			}
		}()
		return fn(ctx, a)
	}
}
