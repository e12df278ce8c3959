package catalog

import (
	"context"
	"fmt"
	"time"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/database"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID           string               `bson:"_id"`
	Code         string               `bson:"code"`
	Designation  string               `bson:"designation"`
	CategoryName string               `bson:"category_name"`
	Brand        string               `bson:"brand,omitempty"`
	Description  string               `bson:"description,omitempty"`
	Image        string               `bson:"image,omitempty"`
	CostPrice    primitive.Decimal128 `bson:"cost_price"`
	PriceExclTax primitive.Decimal128 `bson:"prix_ht"`
	TaxRate      primitive.Decimal128 `bson:"taxe"`
	PriceInclTax primitive.Decimal128 `bson:"prix_ttc"`
	Sellable     bool                 `bson:"sellable"`
	HasVariants  bool                 `bson:"has_variants"`
	Stock        int                  `bson:"stock"`
	Variants     []variantDocument    `bson:"variants"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type variantDocument struct {
	CombinationName string               `bson:"combination_name"`
	Attributes      map[string]string    `bson:"attributes,omitempty"`
	PriceImpact     primitive.Decimal128 `bson:"price_impact"`
	Price           primitive.Decimal128 `bson:"price"`
	Stock           int                  `bson:"stock"`
	DefaultVariant  bool                 `bson:"default_variant"`
	Image           string               `bson:"image,omitempty"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func newProductDocument(p common_models.Product) (*productDocument, error) {
	doc := &productDocument{
		ID:           p.ID,
		Code:         p.Code,
		Designation:  p.Designation,
		CategoryName: p.CategoryName,
		Brand:        p.Brand,
		Description:  p.Description,
		Image:        p.Image,
		Sellable:     p.Sellable,
		HasVariants:  p.HasVariants,
		Stock:        p.Stock,
	}

	var err error
	prices := []struct {
		dst *primitive.Decimal128
		src decimal.Decimal
	}{
		{&doc.CostPrice, p.CostPrice},
		{&doc.PriceExclTax, p.PriceExclTax},
		{&doc.TaxRate, p.TaxRate},
		{&doc.PriceInclTax, p.PriceInclTax},
	}
	for _, price := range prices {
		if *price.dst, err = toDecimal128(price.src); err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Code, err)
		}
	}

	for _, v := range p.Variants {
		vd := variantDocument{
			CombinationName: v.CombinationName,
			Attributes:      v.Attributes,
			Stock:           v.Stock,
			DefaultVariant:  v.DefaultVariant,
			Image:           v.Image,
		}
		if vd.PriceImpact, err = toDecimal128(v.PriceImpact); err != nil {
			return nil, fmt.Errorf("product %s variant %s: %w", p.Code, v.CombinationName, err)
		}
		if vd.Price, err = toDecimal128(v.Price); err != nil {
			return nil, fmt.Errorf("product %s variant %s: %w", p.Code, v.CombinationName, err)
		}
		doc.Variants = append(doc.Variants, vd)
	}
	return doc, nil
}

func (d productDocument) toModel() (common_models.Product, error) {
	p := common_models.Product{
		ID:           d.ID,
		Code:         d.Code,
		Designation:  d.Designation,
		CategoryName: d.CategoryName,
		Brand:        d.Brand,
		Description:  d.Description,
		Image:        d.Image,
		Sellable:     d.Sellable,
		HasVariants:  d.HasVariants,
		Stock:        d.Stock,
	}

	var err error
	if p.CostPrice, err = fromDecimal128(d.CostPrice); err != nil {
		return p, err
	}
	if p.PriceExclTax, err = fromDecimal128(d.PriceExclTax); err != nil {
		return p, err
	}
	if p.TaxRate, err = fromDecimal128(d.TaxRate); err != nil {
		return p, err
	}
	if p.PriceInclTax, err = fromDecimal128(d.PriceInclTax); err != nil {
		return p, err
	}

	for _, vd := range d.Variants {
		v := common_models.Variant{
			CombinationName: vd.CombinationName,
			Attributes:      vd.Attributes,
			Stock:           vd.Stock,
			DefaultVariant:  vd.DefaultVariant,
			Image:           vd.Image,
		}
		if v.Attributes == nil {
			v.Attributes = map[string]string{}
		}
		if v.PriceImpact, err = fromDecimal128(vd.PriceImpact); err != nil {
			return p, err
		}
		if v.Price, err = fromDecimal128(vd.Price); err != nil {
			return p, err
		}
		p.Variants = append(p.Variants, v)
	}
	return p, nil
}

// productKey identifies a product across imports: by code, or by name when
// the code is blank.
func productKey(p common_models.Product) bson.M {
	if p.Code != "" {
		return bson.M{"code": p.Code}
	}
	return bson.M{"code": "", "designation": p.Designation}
}

// ProductRepository is the local catalog. Submitting an existing product
// replaces its fields and keeps its id.
type ProductRepository interface {
	SubmitProducts(ctx context.Context, products []common_models.Product) (common_models.SubmitReport, error)
	ListStockedProducts(ctx context.Context) ([]common_models.Product, error)
}

type ProductRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProductRepository(db *database.MongodbDB) ProductRepository {
	return &ProductRepositoryImpl{
		collection: db.DB.Collection("products"),
	}
}

func (r *ProductRepositoryImpl) SubmitProducts(ctx context.Context, products []common_models.Product) (common_models.SubmitReport, error) {
	var report common_models.SubmitReport
	if len(products) == 0 {
		return report, nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(products))
	for _, p := range products {
		doc, err := newProductDocument(p)
		if err != nil {
			return report, err
		}
		doc.UpdatedAt = now

		fields, err := bson.Marshal(doc)
		if err != nil {
			return report, err
		}
		var set bson.M
		if err := bson.Unmarshal(fields, &set); err != nil {
			return report, err
		}
		delete(set, "_id")

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(productKey(p)).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex()},
			}).
			SetUpsert(true))
	}

	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return report, err
	}

	report.ImportedCount = int(res.MatchedCount + res.UpsertedCount)
	for _, p := range products {
		report.ImportedVariantsCount += p.VariantCount()
	}
	return report, nil
}

// ListStockedProducts returns every product with its product-level stock.
func (r *ProductRepositoryImpl) ListStockedProducts(ctx context.Context) ([]common_models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}, {Key: "designation", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]common_models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", d.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// EnsureIndexes makes non-blank product codes unique.
func (r *ProductRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "code", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"code": bson.M{"$gt": ""}}),
	})
	return err
}
