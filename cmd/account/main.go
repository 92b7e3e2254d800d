// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command account provisions sign-in accounts for the postgres credential backend.
//
// # Usage
//
//	echo -n 'correct horse battery' | DATABASE_URL=postgres://... account -username alice
//
// The password is read from stdin so it never appears in the process list or
// shell history. Migrations are applied first, so the command also works
// against an empty database.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/taibuivan/sessiongate/internal/auth"
	"github.com/taibuivan/sessiongate/internal/platform/apperr"
	"github.com/taibuivan/sessiongate/internal/platform/config"
	"github.com/taibuivan/sessiongate/internal/platform/constants"
	"github.com/taibuivan/sessiongate/internal/platform/migration"
	pgstore "github.com/taibuivan/sessiongate/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String(constants.FieldApp, constants.AppName+"-account"))

	if err := run(log, os.Args[1:], os.Stdin); err != nil {
		log.Error("account_provisioning_failed", slog.Any("error", err))
		if appError := apperr.As(err); appError != nil {
			for _, detail := range appError.Details {
				fmt.Fprintf(os.Stderr, "%s: %s\n", detail.Field, detail.Message)
			}
		}
		os.Exit(1)
	}
}

func run(log *slog.Logger, args []string, stdin io.Reader) error {
	flags := flag.NewFlagSet("account", flag.ContinueOnError)
	username := flags.String("username", "", "account username (stored case-folded)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("account: -username is required")
	}

	password, err := readPassword(stdin)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migration.RunUp(cfg.DatabaseURL, migration.Source(cfg.MigrationPath, auth.Migrations()), log); err != nil {
		return err
	}

	service, err := auth.NewService(auth.NewAccountRepository(pool))
	if err != nil {
		return err
	}

	account, err := service.Register(ctx, auth.RegisterInput{Username: *username, Password: password})
	if err != nil {
		return err
	}

	log.Info("account_created", slog.String("id", account.ID), slog.String("username", account.Username))
	return nil
}

// readPassword takes the first line of stdin, without its line ending.
func readPassword(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("account: failed to read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("account: password must be provided on stdin")
	}
	return password, nil
}
