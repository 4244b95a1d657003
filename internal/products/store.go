package products

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// ProductStore is the storage contract the product handlers depend on.
type ProductStore interface {
	Insert(ctx context.Context, p *Product) error
	List(ctx context.Context, f Filter) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrProductNotFound = errors.New("product not found")

func (s *Store) Insert(ctx context.Context, p *Product) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	const q = `
		INSERT INTO products (title, description, category, brand, price, sale_price, total_stock, image_url, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	row := s.db.QueryRowContext(ctx, q,
		p.Title,
		p.Description,
		p.Category,
		p.Brand,
		p.Price,
		p.SalePrice,
		p.TotalStock,
		p.ImageURL,
		pq.Array(p.Tags),
		time.Now().UTC(),
	)
	return row.Scan(&p.ID, &p.CreatedAt)
}

func (s *Store) List(ctx context.Context, f Filter) ([]Product, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if f.Category != "" {
		clauses = append(clauses, "category = $"+itoa(argIdx))
		args = append(args, f.Category)
		argIdx++
	}
	if f.Brand != "" {
		clauses = append(clauses, "brand = $"+itoa(argIdx))
		args = append(args, f.Brand)
		argIdx++
	}

	order := "created_at DESC"
	switch f.SortBy {
	case SortPriceAsc:
		order = "price ASC"
	case SortPriceDesc:
		order = "price DESC"
	case SortNewest:
		order = "created_at DESC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 60
	}

	query := "SELECT id, title, description, category, brand, price, sale_price, total_stock, image_url, tags, created_at" +
		" FROM products WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY " + order + " LIMIT " + itoa(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		var tags pq.StringArray
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Brand,
			&p.Price, &p.SalePrice, &p.TotalStock, &p.ImageURL, &tags, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Tags = []string(tags)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Product, error) {
	const q = `
		SELECT id, title, description, category, brand, price, sale_price, total_stock, image_url, tags, created_at
		FROM products WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, q, id)
	var p Product
	var tags pq.StringArray
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.Brand,
		&p.Price, &p.SalePrice, &p.TotalStock, &p.ImageURL, &tags, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Tags = []string(tags)
	return &p, nil
}

func (s *Store) Update(ctx context.Context, p *Product) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	const q = `
		UPDATE products
		SET title = $1, description = $2, category = $3, brand = $4,
		    price = $5, sale_price = $6, total_stock = $7, image_url = $8, tags = $9
		WHERE id = $10
	`
	res, err := s.db.ExecContext(ctx, q,
		p.Title, p.Description, p.Category, p.Brand,
		p.Price, p.SalePrice, p.TotalStock, p.ImageURL, pq.Array(p.Tags), p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n)
	return n, err
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
