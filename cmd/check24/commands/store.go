package commands

import (
	"database/sql"
	"fmt"

	"check24-backend/lib/offerstore"
)

func openStore() (offerstore.Store, *sql.DB, error) {
	db, err := config.Database.OpenDB(offerstore.Schema)
	if err != nil {
		return offerstore.Store{}, nil, fmt.Errorf("open database: %w", err)
	}
	return offerstore.NewStore(db), db, nil
}
