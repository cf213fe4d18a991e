// Command bootstrap-user seeds an account directly into the store,
// bypassing the HTTP API. Useful for local development and demo data.
//
// Run with: go run scripts/bootstrap-user.go -email dev@local -password devpass
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/store"
	"github.com/jotter/jotter/internal/store/localstore"
	"github.com/jotter/jotter/internal/store/postgres"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (uses sqlite when empty)")
		sqlitePath  = flag.String("sqlite-path", envOrDefault("SQLITE_PATH", "jotter.db"), "SQLite file path")
		username    = flag.String("username", "dev", "Display name")
		email       = flag.String("email", "dev@jotter.local", "Email address")
		password    = flag.String("password", "", "Password (required)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := openStore(ctx, *databaseURL, *sqlitePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer st.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := st.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			fmt.Fprintf(os.Stderr, "user %s already exists\n", *email)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{UserID: user.ID, Username: user.Username, Email: user.Email}
	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("created user %s (%s)\n", out.Email, out.UserID)
}

func openStore(ctx context.Context, databaseURL, sqlitePath string) (store.Store, error) {
	if databaseURL != "" {
		return postgres.New(ctx, databaseURL)
	}
	return localstore.Open(sqlitePath)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
