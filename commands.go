package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/user/labconsole/auth"
	"github.com/user/labconsole/console"
	"github.com/user/labconsole/reservations"
)

func newCLI() *cli.App {
	return &cli.App{
		Name:  "labconsole",
		Usage: "operator console for the lab reservation system",
		Commands: []*cli.Command{
			serveCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			exportCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the console server",
		Action: withApp(func(c *cli.Context, a *app) error {
			srv := console.NewServer(a.cfg.Console, a.store, a.services, a.log)
			return srv.Run(c.Context)
		}),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and save the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "account", Aliases: []string{"a"}, Usage: "account name", EnvVars: []string{"LABCONSOLE_ACCOUNT"}},
			&cli.StringFlag{Name: "password", Usage: "password; read from stdin when omitted", EnvVars: []string{"LABCONSOLE_PASSWORD"}},
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			in := bufio.NewReader(c.App.Reader)
			account := c.String("account")
			if account == "" {
				v, err := prompt(in, c.App.Writer, "Account: ")
				if err != nil {
					return err
				}
				account = v
			}
			password := c.String("password")
			if password == "" {
				v, err := prompt(in, c.App.Writer, "Password: ")
				if err != nil {
					return err
				}
				password = v
			}

			user, err := a.store.Login(c.Context, auth.LoginRequest{Account: account, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Signed in as %s (%s, %s)\n", user.Name, user.Account, user.Role)
			return nil
		}),
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the saved session",
		Action: withApp(func(c *cli.Context, a *app) error {
			if err := a.store.Logout(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Signed out")
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the saved session",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "refresh", Usage: "fetch the profile again even if one is cached"},
			&cli.BoolFlag{Name: "json", Usage: "print the session as JSON"},
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			res := a.store.FetchCurrentUser(c.Context, c.Bool("refresh"))
			if res.Err != nil {
				a.log.WithError(res.Err).Warn("profile unavailable")
			}
			snap := a.store.Snapshot()
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			if !snap.Authenticated || snap.User == nil {
				fmt.Fprintln(c.App.Writer, "Not signed in")
				return nil
			}
			u := snap.User
			fmt.Fprintf(c.App.Writer, "%s (%s)\nrole:   %s\nstatus: %s\n", u.Name, u.Account, u.Role, u.Status)
			if snap.ExpiresAt != nil {
				fmt.Fprintf(c.App.Writer, "token expires %s (in %s)\n",
					snap.ExpiresAt.Format(time.RFC3339), time.Until(*snap.ExpiresAt).Round(time.Minute))
			}
			return nil
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "download the reservation report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write; defaults to the server's file name, - for stdout"},
			&cli.StringFlag{Name: "format", Value: "xlsx", Usage: "xlsx or json"},
			&cli.StringFlag{Name: "start-date", Usage: "first day, YYYY-MM-DD"},
			&cli.StringFlag{Name: "end-date", Usage: "last day, YYYY-MM-DD"},
			&cli.IntFlag{Name: "room-id", Usage: "only this lab"},
			&cli.StringFlag{Name: "status", Usage: "only reservations in this status"},
			&cli.StringFlag{Name: "time-slot", Usage: "morning, noon, afternoon or evening"},
		},
		Action: withApp(func(c *cli.Context, a *app) error {
			if !a.store.IsAuthenticated() {
				return cli.Exit("not signed in; run `labconsole login` first", 1)
			}
			q := exportQuery(c)

			switch c.String("format") {
			case "json":
				env, err := a.services.Export.ReservationsJSON(c.Context, q)
				if err != nil {
					return err
				}
				w, closeFn, err := openOutput(c, c.String("output"))
				if err != nil {
					return err
				}
				defer closeFn()
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(env.Data)
			case "xlsx":
				att, err := a.services.Export.Reservations(c.Context, q)
				if err != nil {
					return err
				}
				name := c.String("output")
				if name == "" {
					name = att.Filename
				}
				w, closeFn, err := openOutput(c, name)
				if err != nil {
					return err
				}
				defer closeFn()
				if _, err := w.Write(att.Data); err != nil {
					return err
				}
				if name != "-" {
					fmt.Fprintf(c.App.ErrWriter, "Wrote %d bytes to %s\n", len(att.Data), name)
				}
				return nil
			default:
				return cli.Exit(fmt.Sprintf("unknown format %q", c.String("format")), 2)
			}
		}),
	}
}

func exportQuery(c *cli.Context) *reservations.Query {
	q := &reservations.Query{}
	if v := c.String("start-date"); v != "" {
		q.StartDate = &v
	}
	if v := c.String("end-date"); v != "" {
		q.EndDate = &v
	}
	if c.IsSet("room-id") {
		v := c.Int("room-id")
		q.RoomID = &v
	}
	if v := c.String("status"); v != "" {
		status := reservations.Status(v)
		q.Status = &status
	}
	if v := c.String("time-slot"); v != "" {
		slot := reservations.TimeSlot(v)
		q.TimeSlot = &slot
	}
	return q
}

func openOutput(c *cli.Context, name string) (io.Writer, func(), error) {
	if name == "" || name == "-" {
		return c.App.Writer, func() {}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
