package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// OrderStore is the storage contract the order handlers depend on.
type OrderStore interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, f ListFilter) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrOrderNotFound = errors.New("order not found")

func (s *Store) Create(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.Items == nil {
		o.Items = []Item{}
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO orders
		(user_id, items, address, city, pincode, phone, notes, status, total_amount, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`
	now := time.Now().UTC()
	row := s.db.QueryRowContext(ctx, q,
		o.UserID,
		string(itemsJSON),
		o.Address,
		o.City,
		o.Pincode,
		o.Phone,
		o.Notes,
		o.Status,
		o.TotalAmount,
		now,
		now,
	)
	return row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

type ListFilter struct {
	UserID int64
	Status Status
	Limit  int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]Order, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	idx := 1
	if f.UserID != 0 {
		clauses = append(clauses, "user_id = $"+itoa(idx))
		args = append(args, f.UserID)
		idx++
	}
	if f.Status != "" {
		clauses = append(clauses, "status = $"+itoa(idx))
		args = append(args, string(f.Status))
		idx++
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := "SELECT id, user_id, items, address, city, pincode, phone, notes, status, total_amount, created_at, updated_at" +
		" FROM orders WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY created_at DESC LIMIT " + itoa(limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (*Order, error) {
	const q = `
		SELECT id, user_id, items, address, city, pincode, phone, notes, status, total_amount, created_at, updated_at
		FROM orders WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, q, id)
	o, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	const q = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := s.db.ExecContext(ctx, q, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(scan func(dest ...interface{}) error) (*Order, error) {
	var o Order
	var itemsJSON []byte
	if err := scan(&o.ID, &o.UserID, &itemsJSON, &o.Address, &o.City, &o.Pincode,
		&o.Phone, &o.Notes, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
