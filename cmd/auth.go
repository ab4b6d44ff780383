package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/artsyapp/artsy/cmd/common"
	"github.com/artsyapp/artsy/pkg/session"
	"github.com/urfave/cli"
)

var errNotLoggedIn = errors.New("not logged in")

var (
	email     string
	password  string
	username  string
	assumeYes bool

	loginFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "email, e",
			Usage:       "account email address",
			Destination: &email,
		},
		cli.StringFlag{
			Name:        "password, p",
			Usage:       "account password (prompted for when omitted)",
			Destination: &password,
		},
	}

	registerFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "username, u",
			Usage:       "display name for the new account",
			Destination: &username,
		},
		cli.StringFlag{
			Name:        "email, e",
			Usage:       "account email address",
			Destination: &email,
		},
		cli.StringFlag{
			Name:        "password, p",
			Usage:       "account password (prompted for when omitted)",
			Destination: &password,
		},
	}

	deleteFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "yes, y",
			Usage:       "skip the confirmation prompt",
			Destination: &assumeYes,
		},
	}
)

// report prints the outcome and turns a failure into the command error.
func report(o session.Outcome) error {
	if !o.Success {
		return errors.New(o.Message)
	}
	fmt.Println(o.Message)
	return nil
}

func login(ctx *cli.Context, a *App) error {
	e, err := valueOr(email, "Email: ", false)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "read_email", err)
		return nil
	}
	p, err := valueOr(password, "Password: ", true)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "read_password", err)
		return nil
	}
	return report(a.Session.Login(context.Background(), e, p))
}

func register(ctx *cli.Context, a *App) error {
	u, err := valueOr(username, "Username: ", false)
	if err != nil {
		common.PrintRuntimeErr(ctx, "register", "read_username", err)
		return nil
	}
	e, err := valueOr(email, "Email: ", false)
	if err != nil {
		common.PrintRuntimeErr(ctx, "register", "read_email", err)
		return nil
	}
	p, err := valueOr(password, "Password: ", true)
	if err != nil {
		common.PrintRuntimeErr(ctx, "register", "read_password", err)
		return nil
	}
	return report(a.Session.Register(context.Background(), u, e, p))
}

func logout(ctx *cli.Context, a *App) error {
	return report(a.Session.Logout(context.Background()))
}

func deleteAccount(ctx *cli.Context, a *App) error {
	if !restore(a) {
		return errNotLoggedIn
	}
	s := a.Session.State().Session
	if !assumeYes && !confirm(fmt.Sprintf("Delete account %s (%s)? This cannot be undone.", s.Username, s.Email)) {
		fmt.Println("Aborted.")
		return nil
	}
	return report(a.Session.DeleteAccount(context.Background()))
}

func whoami(ctx *cli.Context, a *App) error {
	if !restore(a) {
		return errNotLoggedIn
	}
	s := a.Session.State().Session
	fmt.Printf("Username: %s\n", s.Username)
	fmt.Printf("Email:    %s\n", s.Email)
	fmt.Printf("User ID:  %s\n", s.UserID)
	if s.AvatarURL != "" {
		fmt.Printf("Avatar:   %s\n", s.AvatarURL)
	}
	return nil
}

// restore validates the saved session behind a spinner.
func restore(a *App) bool {
	stop := common.Spin("Restoring session")
	defer stop()
	return a.Session.Restore(context.Background())
}
