// Command notesctl is a small terminal client for the notes API.
//
// Usage:
//
//	notesctl -addr http://localhost:8080 register -username alice -email a@x.com -password pw
//	notesctl -addr http://localhost:8080 login -email a@x.com -password pw
//	notesctl -addr http://localhost:8080 -token nsk_... list
//	notesctl -addr http://localhost:8080 -token nsk_... add -title Groceries -content "Milk, eggs"
//	notesctl -addr http://localhost:8080 -token nsk_... delete -id <note-id>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jotter/jotter/internal/client"
)

const commandTimeout = 30 * time.Second

func main() {
	var (
		addr  = flag.String("addr", envOr("JOTTER_ADDR", "http://localhost:8080"), "API base URL")
		token = flag.String("token", os.Getenv("JOTTER_TOKEN"), "Session token from a previous login")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: notesctl [flags] <register|login|logout|me|list|add|delete> [command flags]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	c := client.New(*addr, client.WithToken(*token))

	if err := run(ctx, c, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string) error {
	switch command {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		username := fs.String("username", "", "Display name")
		email := fs.String("email", "", "Email address")
		password := fs.String("password", "", "Password")
		fs.Parse(args)

		user, err := c.Register(ctx, *username, *email, *password)
		if err != nil {
			return err
		}
		return printJSON(user)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "Email address")
		password := fs.String("password", "", "Password")
		fs.Parse(args)

		user, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "export JOTTER_TOKEN=%s\n", c.Token())
		return printJSON(user)

	case "logout":
		return c.Logout(ctx)

	case "me":
		session, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(session)

	case "list":
		notes, err := c.ListNotes(ctx)
		if err != nil {
			return err
		}
		return printJSON(notes)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		title := fs.String("title", "", "Note title")
		content := fs.String("content", "", "Note content")
		fs.Parse(args)

		notes, err := c.AddNote(ctx, *title, *content)
		if err != nil {
			return err
		}
		return printJSON(notes)

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.String("id", "", "Note ID")
		fs.Parse(args)

		notes, err := c.DeleteNote(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(notes)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
