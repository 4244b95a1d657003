package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// UserStore is the credential store contract the auth service depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, userName, email, password string, role Role) (*User, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, user_name, email, password_hash, role, created_at FROM users WHERE email = $1`
	row := s.db.QueryRowContext(ctx, q, email)
	u := &User{}
	if err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create hashes the password and inserts the record. Uniqueness of the email
// is enforced by the database index, so a registration racing another for the
// same address loses cleanly with ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, userName, email, password string, role Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO users (user_name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_name, email, password_hash, role, created_at
	`
	u := &User{}
	err = s.db.QueryRowContext(ctx, q, userName, email, string(hash), role, time.Now().UTC()).
		Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

type usersFile struct {
	Users []struct {
		UserName string `yaml:"user_name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     Role   `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile bootstraps accounts (the admin, typically) from a YAML file.
// Existing emails are left untouched.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return err
	}
	for _, u := range uf.Users {
		if u.Email == "" || u.Password == "" {
			continue
		}
		role := u.Role
		if role == "" {
			role = RoleUser
		}
		if _, err := s.Create(ctx, u.UserName, u.Email, u.Password, role); err != nil {
			if errors.Is(err, ErrDuplicateEmail) {
				continue
			}
			return err
		}
	}
	return nil
}
