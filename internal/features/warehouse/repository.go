package warehouse

import (
	"context"
	"fmt"
	"time"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type warehouseDocument struct {
	ID         string              `bson:"_id"`
	Name       string              `bson:"name"`
	Percentage float64             `bson:"percentage"`
	Stock      []stockLineDocument `bson:"stock"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

type stockLineDocument struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

func (d warehouseDocument) toModel() common_models.Warehouse {
	w := common_models.Warehouse{
		ID:         d.ID,
		Name:       d.Name,
		Percentage: d.Percentage,
		Stock:      make([]common_models.StockLine, 0, len(d.Stock)),
	}
	for _, line := range d.Stock {
		w.Stock = append(w.Stock, common_models.StockLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return w
}

// WarehouseRepository stores warehouses with their stock lines embedded.
type WarehouseRepository interface {
	WarehouseStore
	EnsureWarehouse(ctx context.Context, w *common_models.Warehouse) (bool, error)
}

type WarehouseRepositoryImpl struct {
	collection *mongo.Collection
}

func NewWarehouseRepository(db *database.MongodbDB) WarehouseRepository {
	return &WarehouseRepositoryImpl{
		collection: db.DB.Collection("warehouses"),
	}
}

func (r *WarehouseRepositoryImpl) ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []warehouseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	warehouses := make([]common_models.Warehouse, 0, len(docs))
	for _, d := range docs {
		warehouses = append(warehouses, d.toModel())
	}
	return warehouses, nil
}

// EnsureWarehouse inserts w unless a warehouse with the same id exists. It
// reports whether a document was created.
func (r *WarehouseRepositoryImpl) EnsureWarehouse(ctx context.Context, w *common_models.Warehouse) (bool, error) {
	if w.ID == "" {
		w.ID = primitive.NewObjectID().Hex()
	}
	stock := make([]stockLineDocument, 0, len(w.Stock))
	for _, line := range w.Stock {
		stock = append(stock, stockLineDocument{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": w.ID},
		bson.M{"$setOnInsert": bson.M{
			"name":       w.Name,
			"percentage": w.Percentage,
			"stock":      stock,
			"updated_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *WarehouseRepositoryImpl) SetPercentage(ctx context.Context, warehouseID string, percentage float64) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": warehouseID},
		bson.M{"$set": bson.M{"percentage": percentage, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}

func (r *WarehouseRepositoryImpl) AddStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	return r.writeLine(ctx, productID, warehouseID, quantity, bson.M{
		"$inc": bson.M{"stock.$.quantity": quantity},
		"$set": bson.M{"updated_at": time.Now()},
	})
}

func (r *WarehouseRepositoryImpl) SetStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	return r.writeLine(ctx, productID, warehouseID, quantity, bson.M{
		"$set": bson.M{"stock.$.quantity": quantity, "updated_at": time.Now()},
	})
}

// writeLine applies update to an existing stock line, or pushes a new line
// holding quantity. The second attempt covers a line created concurrently
// between the two updates.
func (r *WarehouseRepositoryImpl) writeLine(ctx context.Context, productID, warehouseID string, quantity int, update bson.M) error {
	for attempt := 0; attempt < 2; attempt++ {
		res, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": warehouseID, "stock.product_id": productID},
			update,
		)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}

		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": warehouseID, "stock.product_id": bson.M{"$ne": productID}},
			bson.M{
				"$push": bson.M{"stock": stockLineDocument{ProductID: productID, Quantity: quantity}},
				"$set":  bson.M{"updated_at": time.Now()},
			},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}

		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": warehouseID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrWarehouseNotFound
		}
	}
	return fmt.Errorf("stock line of product %s in warehouse %s kept changing, giving up", productID, warehouseID)
}
