package main

import (
	"database/sql"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/adapters/repository/postgres"
)

// Runs a single migration file by name suffix, e.g. "create_polls.down".
func main() {
	log := logrus.New()

	if len(os.Args) < 2 {
		log.Fatal("a migration name is required.")
	}
	migrationName := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found")
	}

	content, err := postgres.Migration(migrationName)
	if err != nil {
		log.WithError(err).Fatal("failed to read migration")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if _, err := db.Exec(string(content)); err != nil {
		log.WithError(err).Fatal("failed to execute migration")
	}

	log.WithField("migration", migrationName).Info("migration file executed successfully")
}

func dbConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD")),
		Host:     os.Getenv("POSTGRES_HOST") + ":" + os.Getenv("POSTGRES_PORT"),
		Path:     "/" + os.Getenv("POSTGRES_DB"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
