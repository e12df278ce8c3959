package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	common_models "go-catalog/internal/common/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductSource lists the catalog, whichever backend holds it.
type ProductSource interface {
	ListStockedProducts(ctx context.Context) ([]common_models.Product, error)
}

// ProductFilter narrows a listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Search   string
	InStock  bool
}

func (f ProductFilter) matches(p common_models.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.CategoryName, f.Category) {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Designation), q) && !strings.Contains(strings.ToLower(p.Code), q) {
			return false
		}
	}
	return true
}

type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]common_models.Product, error)
	GetProduct(ctx context.Context, id string) (*common_models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type ProductServiceImpl struct {
	Source ProductSource
}

func NewProductService(source ProductSource) ProductService {
	return &ProductServiceImpl{
		Source: source,
	}
}

func (s *ProductServiceImpl) ListProducts(ctx context.Context, filter ProductFilter) ([]common_models.Product, error) {
	products, err := s.Source.ListStockedProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]common_models.Product, 0, len(products))
	for _, p := range products {
		if filter.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProductServiceImpl) GetProduct(ctx context.Context, id string) (*common_models.Product, error) {
	products, err := s.Source.ListStockedProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *ProductServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	products, err := s.Source.ListStockedProducts(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range products {
		if p.CategoryName == "" || seen[p.CategoryName] {
			continue
		}
		seen[p.CategoryName] = true
		categories = append(categories, p.CategoryName)
	}
	sort.Strings(categories)
	return categories, nil
}
