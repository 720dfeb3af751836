package cmd

import (
	"context"
	"database/sql"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/internal/db"
	"gfa-backend/internal/events"
)

func openStore(ctx context.Context, g *globals.Value) (events.Store, *sql.DB, error) {
	database, err := db.Open(ctx, g.Config.Database)
	if err != nil {
		return events.Store{}, nil, err
	}
	return events.NewStore(database, g.Tel), database, nil
}
