// Command migrate manages the catalog database schema.
//
// Usage:
//
//	migrate [up|down|status]
//
// "up" (the default) applies pending migrations, "down" rolls back the
// latest one, "status" lists every migration and whether it is applied.
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/adcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/adcatalog-backend/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [up|down|status]\n", os.Args[0])
	}
	flag.Parse()

	command := "up"
	switch flag.NArg() {
	case 0:
	case 1:
		command = flag.Arg(0)
	default:
		flag.Usage()
		return 2
	}
	if command != "up" && command != "down" && command != "status" {
		flag.Usage()
		return 2
	}

	env, err := app.Setup("migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v\n", err)
		return 1
	}
	logger := env.Log

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	m, err := postgres.NewMigrator(ctx, env.Config.Database.DSN, logger)
	if err != nil {
		logger.Error("open migrator", slog.String("error", err.Error()))
		return 1
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = printStatus(ctx, m)
	}
	if err != nil {
		logger.Error("migrate "+command, slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func printStatus(ctx context.Context, m *postgres.Migrator) error {
	statuses, err := m.Status(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	return w.Flush()
}
