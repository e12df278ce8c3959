package connectors

import (
	"context"

	"go-catalog/internal/config"
	"go-catalog/internal/database"
)

// MongoConnector reports on the local MongoDB catalog.
type MongoConnector struct {
	db *database.MongodbDB
}

func NewMongoConnector(db *database.MongodbDB) *MongoConnector {
	return &MongoConnector{db: db}
}

func (c *MongoConnector) TestConnection(ctx context.Context) error {
	return c.db.DB.Client().Ping(ctx, nil)
}

func (c *MongoConnector) GetType() string {
	return config.BackendMongo
}
