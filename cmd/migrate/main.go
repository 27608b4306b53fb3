package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/KoTeHok22/Locus-sub001/internal/config"
)

const usage = `manage the locus database schema

usage:
  migrate up         apply all pending migrations
  migrate down       roll everything back
  migrate steps N    apply N migrations (negative N rolls back)
  migrate version    print the current schema version`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: loading config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: opening migration source: %v", err)
	}
	defer m.Close()

	if err := run(m, os.Args[1:]); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run(m *migrate.Migrate, args []string) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Println("migrate: schema is up to date")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Println("migrate: schema rolled back")

	case "steps":
		if len(args) < 2 {
			return errors.New("steps needs a count, e.g. 'migrate steps -1'")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad step count %q: %w", args[1], err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Printf("migrate: moved %d step(s)", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("schema version %d (dirty=%v)\n", version, dirty)

	default:
		fmt.Println(usage)
		os.Exit(1)
	}
	return nil
}
