package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	common_models "go-catalog/internal/common/models"
	"go-catalog/internal/config"
	"go-catalog/internal/features/warehouse"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// POSConnector forwards catalog and warehouse operations to the POS backend.
// It serves as both the import sink and the distribution backend.
type POSConnector struct {
	api *jsonClient
}

func NewPOSConnector(cfg *config.Config, logger *zap.Logger) *POSConnector {
	return &POSConnector{
		api: &jsonClient{
			baseURL: strings.TrimRight(cfg.POSBaseURL, "/"),
			client:  &http.Client{Timeout: cfg.POSTimeout},
			logger:  logger.Named("pos_connector"),
		},
	}
}

func (c *POSConnector) GetType() string {
	return config.BackendPOS
}

func (c *POSConnector) TestConnection(ctx context.Context) error {
	return c.api.do(ctx, http.MethodGet, "/pos/warehouse/", nil, nil)
}

type posVariant struct {
	CombinationName string            `json:"combination_name"`
	PriceImpact     float64           `json:"price_impact"`
	Price           float64           `json:"price,omitempty"`
	Stock           int               `json:"stock"`
	DefaultVariant  bool              `json:"default_variant"`
	Attributes      map[string]string `json:"attributes"`
	Image           string            `json:"image,omitempty"`
}

type posProductPayload struct {
	Code         string       `json:"code"`
	Designation  string       `json:"designation"`
	CategoryName string       `json:"category_name"`
	Brand        string       `json:"brand"`
	Description  string       `json:"description"`
	Image        string       `json:"image,omitempty"`
	CostPrice    float64      `json:"cost_price"`
	PrixHT       float64      `json:"prixHT"`
	Taxe         float64      `json:"taxe"`
	PrixTTC      float64      `json:"prixTTC"`
	Sellable     bool         `json:"sellable"`
	HasVariants  bool         `json:"has_variants"`
	Stock        *int         `json:"stock,omitempty"`
	Variants     []posVariant `json:"variants"`
}

func newPOSProductPayload(p common_models.Product) posProductPayload {
	out := posProductPayload{
		Code:         p.Code,
		Designation:  p.Designation,
		CategoryName: p.CategoryName,
		Brand:        p.Brand,
		Description:  p.Description,
		Image:        p.Image,
		CostPrice:    p.CostPrice.InexactFloat64(),
		PrixHT:       p.PriceExclTax.InexactFloat64(),
		Taxe:         p.TaxRate.InexactFloat64(),
		PrixTTC:      p.PriceInclTax.InexactFloat64(),
		Sellable:     p.Sellable,
		HasVariants:  p.HasVariants,
		Variants:     []posVariant{},
	}
	if !p.HasVariants {
		stock := p.Stock
		out.Stock = &stock
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, posVariant{
			CombinationName: v.CombinationName,
			PriceImpact:     v.PriceImpact.InexactFloat64(),
			Price:           v.Price.InexactFloat64(),
			Stock:           v.Stock,
			DefaultVariant:  v.DefaultVariant,
			Attributes:      v.Attributes,
			Image:           v.Image,
		})
	}
	return out
}

type posImportResponse struct {
	ImportedCount         int `json:"importedCount"`
	ImportedVariantsCount int `json:"importedVariantsCount"`
}

func (c *POSConnector) SubmitProducts(ctx context.Context, products []common_models.Product) (common_models.SubmitReport, error) {
	payload := struct {
		Products []posProductPayload `json:"products"`
	}{Products: make([]posProductPayload, 0, len(products))}
	for _, p := range products {
		payload.Products = append(payload.Products, newPOSProductPayload(p))
	}

	var resp posImportResponse
	if err := c.api.do(ctx, http.MethodPost, "/pos/product/import", payload, &resp); err != nil {
		return common_models.SubmitReport{}, err
	}
	return common_models.SubmitReport{
		ImportedCount:         resp.ImportedCount,
		ImportedVariantsCount: resp.ImportedVariantsCount,
	}, nil
}

type posProductRecord struct {
	ID           flexID          `json:"id"`
	Code         string          `json:"code"`
	Designation  string          `json:"designation"`
	CategoryName string          `json:"category_name"`
	Brand        string          `json:"brand"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	PrixHT       decimal.Decimal `json:"prix_ht"`
	Taxe         decimal.Decimal `json:"taxe"`
	PrixTTC      decimal.Decimal `json:"prix_ttc"`
	Sellable     bool            `json:"sellable"`
	HasVariants  bool            `json:"has_variants"`
	Stock        *int            `json:"stock"`
	Variants     []struct {
		CombinationName string            `json:"combination_name"`
		PriceImpact     decimal.Decimal   `json:"price_impact"`
		Stock           int               `json:"stock"`
		DefaultVariant  bool              `json:"default_variant"`
		Attributes      map[string]string `json:"attributes"`
	} `json:"variants"`
}

func (r posProductRecord) toModel() common_models.Product {
	p := common_models.Product{
		ID:           string(r.ID),
		Code:         r.Code,
		Designation:  r.Designation,
		CategoryName: r.CategoryName,
		Brand:        r.Brand,
		Description:  r.Description,
		Image:        r.Image,
		CostPrice:    r.CostPrice,
		PriceExclTax: r.PrixHT,
		TaxRate:      r.Taxe,
		PriceInclTax: r.PrixTTC,
		Sellable:     r.Sellable,
		HasVariants:  r.HasVariants,
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	for _, v := range r.Variants {
		attrs := v.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		p.Variants = append(p.Variants, common_models.Variant{
			CombinationName: v.CombinationName,
			Attributes:      attrs,
			PriceImpact:     v.PriceImpact,
			Price:           r.PrixTTC.Add(v.PriceImpact).Round(2),
			Stock:           v.Stock,
			DefaultVariant:  v.DefaultVariant,
		})
	}
	return p
}

func (c *POSConnector) ListStockedProducts(ctx context.Context) ([]common_models.Product, error) {
	var records []posProductRecord
	if err := c.api.do(ctx, http.MethodGet, "/pos/product/get", nil, &records); err != nil {
		return nil, err
	}
	products := make([]common_models.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toModel())
	}
	return products, nil
}

type posWarehouseRecord struct {
	ID         flexID  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Stock      []struct {
		ProductID flexID `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"stock"`
}

func (c *POSConnector) ListWarehouses(ctx context.Context) ([]common_models.Warehouse, error) {
	var records []posWarehouseRecord
	if err := c.api.do(ctx, http.MethodGet, "/pos/warehouse/", nil, &records); err != nil {
		return nil, err
	}

	warehouses := make([]common_models.Warehouse, 0, len(records))
	for _, r := range records {
		w := common_models.Warehouse{
			ID:         string(r.ID),
			Name:       r.Name,
			Percentage: r.Percentage,
			Stock:      make([]common_models.StockLine, 0, len(r.Stock)),
		}
		for _, line := range r.Stock {
			w.Stock = append(w.Stock, common_models.StockLine{ProductID: string(line.ProductID), Quantity: line.Quantity})
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

func (c *POSConnector) SetPercentage(ctx context.Context, warehouseID string, percentage float64) error {
	path := fmt.Sprintf("/pos/warehouse/%s/", url.PathEscape(warehouseID))
	err := c.api.do(ctx, http.MethodPatch, path, map[string]float64{"percentage": percentage}, nil)
	return notFoundAs(err, warehouse.ErrWarehouseNotFound)
}

func (c *POSConnector) AddStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	path := fmt.Sprintf("/pos/warehouse/%s/add-stock/", url.PathEscape(warehouseID))
	body := map[string]interface{}{"product_id": productID, "quantity": quantity}
	return notFoundAs(c.api.do(ctx, http.MethodPost, path, body, nil), warehouse.ErrWarehouseNotFound)
}

// SetStock patches the existing stock item, or creates it when the
// warehouse holds no line for the product yet.
func (c *POSConnector) SetStock(ctx context.Context, productID, warehouseID string, quantity int) error {
	warehouses, err := c.ListWarehouses(ctx)
	if err != nil {
		return err
	}

	var target *common_models.Warehouse
	for i := range warehouses {
		if warehouses[i].ID == warehouseID {
			target = &warehouses[i]
			break
		}
	}
	if target == nil {
		return warehouse.ErrWarehouseNotFound
	}

	if _, exists := target.QuantityOf(productID); exists {
		path := fmt.Sprintf("/pos/stockitem/%s/", url.PathEscape(productID))
		body := map[string]interface{}{"warehouse_id": warehouseID, "quantity": quantity}
		return c.api.do(ctx, http.MethodPatch, path, body, nil)
	}

	body := map[string]interface{}{"warehouse": warehouseID, "product": productID, "quantity": quantity}
	return c.api.do(ctx, http.MethodPost, "/pos/stockitem/", body, nil)
}

func notFoundAs(err error, target error) error {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %v", target, err)
	}
	return err
}
