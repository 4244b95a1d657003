package products

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []struct {
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Category    string   `yaml:"category"`
		Brand       string   `yaml:"brand"`
		Price       float64  `yaml:"price"`
		SalePrice   float64  `yaml:"sale_price"`
		TotalStock  int      `yaml:"total_stock"`
		ImageURL    string   `yaml:"image_url"`
		Tags        []string `yaml:"tags"`
	} `yaml:"products"`
}

// SeedFromFile loads a bootstrap catalog. It only runs against an empty
// products table so restarts don't duplicate rows.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return err
	}
	for _, c := range cf.Products {
		if c.Title == "" {
			continue
		}
		p := &Product{
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Brand:       c.Brand,
			Price:       c.Price,
			SalePrice:   c.SalePrice,
			TotalStock:  c.TotalStock,
			ImageURL:    c.ImageURL,
			Tags:        c.Tags,
		}
		if err := s.Insert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
