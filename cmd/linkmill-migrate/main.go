// linkmill-migrate drives the embedded goose migrations against postgres
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"linkmill/internal/platform/config"
	"linkmill/internal/platform/logger"
	"linkmill/migrations"
)

func main() {
	flag.Parse()

	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "linkmill-migrate"
	}
	logger.Init(opts)
	l := logger.Get()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: linkmill-migrate <command>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  up          Migrate to the latest version")
		fmt.Fprintln(os.Stderr, "  up-one      Migrate one version up")
		fmt.Fprintln(os.Stderr, "  down        Roll back one version")
		fmt.Fprintln(os.Stderr, "  status      Show migration status")
		fmt.Fprintln(os.Stderr, "  version     Show current version")
		fmt.Fprintln(os.Stderr, "  reset       Roll back all migrations")
		os.Exit(1)
	}

	url := config.New().Prefix("SERVICE_PGSQL_").MustString("DBURL")
	db, err := sql.Open("pgx", url)
	if err != nil {
		l.Fatal().Err(err).Msg("open database failed")
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal().Err(err).Msg("set dialect failed")
	}

	cmd := args[0]
	switch cmd {
	case "up":
		err = goose.Up(db, ".")
	case "up-one":
		err = goose.UpByOne(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		l.Fatal().Str("command", cmd).Msg("unknown command")
	}
	if err != nil {
		l.Fatal().Err(err).Str("command", cmd).Msg("migration failed")
	}
	l.Info().Str("command", cmd).Msg("done")
}
