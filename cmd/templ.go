package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const SUBCMD_HELP_TEMPL = `{{.HelpName}} - {{.Usage}}
{{if .Description}}
{{.Description}}{{end}}
Usage:
        {{.HelpName}} <command> [arguments...]

Commands:{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}

`

const DESCRIPTION = `
artsy is a command line client for your Artsy account.
It keeps you signed in between runs by persisting the session cookies
the server hands out, and lets you manage your favorite artists.
`

const LoginDescription = `Signs in with an email address and password.

The password is read from the terminal without echo when --password is not
given. On success the session cookies are stored and reused by every later
command until you log out.

`

const RegisterDescription = `Creates a new account and signs in to it.

`

const LogoutDescription = `Signs out of the current session.

The local session is always removed, even when the server cannot be reached.

`

const DeleteAccountDescription = `Permanently deletes the signed-in account.

You will be asked to confirm unless --yes is given. The local session is
removed whether or not the server confirms the deletion.

`

const WhoamiDescription = `Restores the saved session and prints the signed-in user.

`

const FavoritesDescription = `Lists and edits the favorite artists of the signed-in user.`

const CookiesDescription = `Inspects and manages the stored session cookies.

import accepts a Netscape cookies.txt file or a copy of a Firefox or
Chrome cookie database. Only cookies for the configured server are kept.`
