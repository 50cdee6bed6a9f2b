package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog resolves products by slug.
type Catalog interface {
	Product(ctx context.Context, slug string) (domain.Product, error)
}

type file struct {
	Products []domain.Product `yaml:"products"`
}

// FileCatalog serves products read from a YAML file.
// It is read-only after loading.
type FileCatalog struct {
	bySlug map[string]domain.Product
}

func LoadFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*FileCatalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &FileCatalog{bySlug: make(map[string]domain.Product, len(f.Products))}
	for _, p := range f.Products {
		if p.Slug == "" || p.ID == "" {
			return nil, fmt.Errorf("catalog product %q: id and slug are required", p.Name)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("catalog product %q: duplicate slug", p.Slug)
		}
		c.bySlug[p.Slug] = p
	}
	return c, nil
}

func (c *FileCatalog) Product(_ context.Context, slug string) (domain.Product, error) {
	p, ok := c.bySlug[slug]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (c *FileCatalog) Len() int {
	return len(c.bySlug)
}
