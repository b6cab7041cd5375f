package main

import (
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Ochessi/tasknest/config"
)

func main() {
	command := flag.String("command", "up", "migration command (up/down/status/version)")
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		if err := goose.Up(db, *dir); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		log.Println("successfully ran migrations")

	case "down":
		if err := goose.Down(db, *dir); err != nil {
			log.Fatalf("failed to rollback migrations: %v", err)
		}
		log.Println("successfully rolled back migrations")

	case "status":
		if err := goose.Status(db, *dir); err != nil {
			log.Fatalf("failed to get migration status: %v", err)
		}

	case "version":
		version, err := goose.GetDBVersion(db)
		if err != nil {
			log.Fatalf("failed to get migration version: %v", err)
		}
		log.Printf("current migration version: %d", version)

	default:
		log.Fatalf("unknown command: %s", *command)
	}
}
