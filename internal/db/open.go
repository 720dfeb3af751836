package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Config struct {
	// File is a local sqlite database, ":memory:" works.
	File string `json:"file"`
	// LibsqlURL points at a remote libsql server and takes precedence over File.
	LibsqlURL string `json:"libsql_url"`
	AuthToken string `json:"auth_token"`
}

func wrapOpen(err error) error {
	return fmt.Errorf("open db: %w", err)
}

// Open opens the configured database and creates any missing tables.
func Open(ctx context.Context, config Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch {
	case config.LibsqlURL != "":
		db, err = openLibsql(config)
	case config.File != "":
		db, err = openSqlite(config.File)
	default:
		return nil, wrapOpen(fmt.Errorf("neither file nor libsql_url is set"))
	}
	if err != nil {
		return nil, wrapOpen(err)
	}

	_, err = db.ExecContext(ctx, Schema)
	if err != nil {
		db.Close()
		return nil, wrapOpen(fmt.Errorf("apply schema: %w", err))
	}
	return db, nil
}

func openSqlite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer, see
	// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openLibsql(config Config) (*sql.DB, error) {
	dsn := config.LibsqlURL
	if config.AuthToken != "" {
		parsed, err := url.Parse(dsn)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", config.AuthToken)
		parsed.RawQuery = query.Encode()
		dsn = parsed.String()
	}
	return sql.Open("libsql", dsn)
}
