package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/guilherme-santos/calendarposter/calendar/google"
	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/sqlite"
)

const googleProvider = "google"

var AuthCommand = _authCommand{
	Name:        "auth",
	Description: "Authenticates with Google to get access to the calendar",
}

type _authCommand struct {
	Name        string
	Description string
}

func (c _authCommand) name() string        { return c.Name }
func (c _authCommand) description() string { return c.Description }

func (c _authCommand) Run(ctx context.Context, e *env, args []string) error {
	var force bool

	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.BoolVar(&force, "force", false, "authenticate again even if credentials are stored")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := internal.NewLogger(e.stdout, e.verbose)

	db, err := sql.Open(sqlite.DriverName, e.dbFilename)
	if err != nil {
		return err
	}
	defer db.Close()
	storage := sqlite.NewStorage(db)

	acc := internal.Account{
		Platform: googleProvider,
		Name:     e.cfg.Account,
	}

	_, err = storage.Account(ctx, acc.ID())
	switch {
	case err == nil && !force:
		logger.Info("CLI is already authenticated.", "account", acc.ID())
		return nil
	case err == nil:
		logger.Info("Removing stored credentials", "account", acc.ID())
		if err := storage.DeleteAccount(ctx, acc.ID()); err != nil {
			return fmt.Errorf("removing account: %v", err)
		}
	case !errors.Is(err, sqlite.ErrAccountNotFound):
		return fmt.Errorf("reading account: %v", err)
	}

	logger.Info("CLI is not authenticated, starting OAuth2 flow.", "account", acc.ID())

	credFile, err := os.ReadFile(e.clientIDFile)
	if err != nil {
		return fmt.Errorf("reading client id file: %v", err)
	}
	googleCal, err := google.NewClient(credFile, logger)
	if err != nil {
		return fmt.Errorf("creating client: %v", err)
	}

	authToken, err := googleCal.Login(ctx, func(authURL string) {
		fmt.Fprintf(e.stdout, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %v", err)
	}

	auth, err := json.Marshal(authToken)
	if err != nil {
		return fmt.Errorf("encoding token: %v", err)
	}
	acc.Auth = string(auth)

	logger.Info("Saving account", "account", acc.ID())
	if err := storage.AddAccount(ctx, &acc); err != nil {
		return fmt.Errorf("saving account: %v", err)
	}
	return nil
}
