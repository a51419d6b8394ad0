// Package main seeds development fixture data.
//
// It wipes all users and recreates three dev accounts, each with a library
// blob in the informal {"all": [...]} client convention. Run the API once
// first so the schema exists.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/libris/libris/internal/auth"
)

type fixture struct {
	username string
	email    string
	password string
	library  string
}

var fixtures = []fixture{
	{
		username: "jondog",
		email:    "jondog@libris.local",
		password: "258963147",
		library:  `{"all": ["dasdasda", "ewqedas", "vcxvdfd"]}`,
	},
	{
		username: "pawndog",
		email:    "pawndog@libris.local",
		password: "963741582",
		library:  `{"all": ["eowqeo", "vcxvvcx", "dlasdl"]}`,
	},
	{
		username: "lawdog",
		email:    "lawdog@libris.local",
		password: "741862358",
		library:  `{"all": ["ppeowq", "zzasas", "vcxvdfd"]}`,
	},
}

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(db); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println("Data seeded...")
}

func seed(db *sql.DB) error {
	// Libraries cascade away with their owners.
	if _, err := db.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("wipe users: %w", err)
	}

	for _, f := range fixtures {
		hashed, err := auth.HashPassword(f.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", f.username, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		var userID int64
		err = tx.QueryRow(`
			INSERT INTO users (username, email, hashed_password)
			VALUES ($1, $2, $3)
			RETURNING id
		`, f.username, f.email, hashed).Scan(&userID)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert user %s: %w", f.username, err)
		}

		_, err = tx.Exec(`
			INSERT INTO libraries (user_id, data)
			VALUES ($1, $2)
		`, userID, f.library)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert library for %s: %w", f.username, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f.username, err)
		}

		fmt.Printf("created %s (%s)\n", f.username, f.email)
	}

	return nil
}
