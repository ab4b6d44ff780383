package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/artsyapp/artsy/cmd/common"
	"github.com/artsyapp/artsy/internal/cookies"
	"github.com/artsyapp/artsy/pkg/credman"
	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

var errNoFile = errors.New("file path is required")

// exportFs is where cookies export writes, replaced in tests.
var exportFs afero.Fs = afero.NewOsFs()

var (
	showValues bool

	cookieListFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "show-values",
			Usage:       "print cookie values (default: false)",
			Destination: &showValues,
		},
	}
)

func listCookies(ctx *cli.Context, a *App) error {
	all := a.Store.All()
	if len(all) == 0 {
		fmt.Println("artsy: no cookies stored")
		return nil
	}
	txt := "Stored cookies:\n"
	for _, c := range all {
		txt += fmt.Sprintf("\n%s\t%s%s\texpires %s%s", c.Name, c.Domain, c.Path, expiry(c), flags(c))
		if showValues {
			txt += "\n\tvalue: " + c.Value
		}
	}
	fmt.Println(txt)
	return nil
}

func expiry(c types.Cookie) string {
	if c.ExpiresAt == types.SessionExpiry {
		return "never"
	}
	return time.Unix(c.ExpiresAt, 0).Local().Format(time.DateTime)
}

func flags(c types.Cookie) (s string) {
	if c.Secure {
		s += "\tsecure"
	}
	if c.HttpOnly {
		s += "\thttponly"
	}
	return
}

func importCookies(ctx *cli.Context, a *App) error {
	path := ctx.Args().First()
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoFile)
	}
	base := a.Client.BaseURL()
	res, err := cookies.Import(path, base.Hostname(), a.Log)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookies", "import", err)
		return nil
	}
	err = a.Store.Save(base, res.Cookies)
	rejected := 0
	if err != nil {
		for _, e := range unwrapAll(err) {
			if errors.Is(e, credman.ErrRejected) {
				rejected++
				continue
			}
			common.PrintRuntimeErr(ctx, "cookies", "save", e)
			return nil
		}
	}
	fmt.Printf("Imported %d %s cookies for %s (skipped %d, rejected %d)\n",
		len(res.Cookies)-rejected, res.Format, base.Hostname(), res.Skipped, rejected)
	return nil
}

func unwrapAll(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func exportCookies(ctx *cli.Context, a *App) error {
	path := ctx.Args().First()
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoFile)
	}
	all := a.Store.All()
	var buf bytes.Buffer
	if err := cookies.WriteNetscape(&buf, all); err != nil {
		common.PrintRuntimeErr(ctx, "cookies", "export", err)
		return nil
	}
	if err := afero.WriteFile(exportFs, path, buf.Bytes(), 0o600); err != nil {
		common.PrintRuntimeErr(ctx, "cookies", "export", err)
		return nil
	}
	fmt.Printf("Exported %d cookies to %s\n", len(all), path)
	return nil
}

func clearCookies(ctx *cli.Context, a *App) error {
	if err := a.Store.Clear(); err != nil {
		common.PrintRuntimeErr(ctx, "cookies", "clear", err)
		return nil
	}
	fmt.Println("Cleared stored cookies")
	return nil
}
