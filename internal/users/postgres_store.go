package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID string `bun:"user_id,pk" json:"userId"`
	Name   string `bun:"name,notnull" json:"name"`
}

// PostgresStore implements UserStore with PostgreSQL storage
type PostgresStore struct {
	db       *bun.DB
	table    string
	pageSize int
}

// NewPostgresStore creates a new PostgreSQL store on table. Scans read
// pageSize rows per round-trip.
func NewPostgresStore(db *bun.DB, table string, pageSize int) *PostgresStore {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &PostgresStore{
		db:       db,
		table:    table,
		pageSize: pageSize,
	}
}

// CreateTable creates the users table if it does not exist yet
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS ? (user_id text PRIMARY KEY, name text NOT NULL)",
		s.ident())
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) ident() bun.Ident {
	return bun.Ident(s.table)
}

func (s *PostgresStore) GetUser(ctx context.Context, userID string) (*User, error) {
	var schema UserSchema
	err := s.db.NewSelect().
		Model(&schema).
		ModelTableExpr("? AS u", s.ident()).
		Where("u.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return schemaToUser(schema), nil
}

func (s *PostgresStore) PutUser(ctx context.Context, user *User) error {
	schema := userToSchema(user)

	_, err := s.db.NewInsert().
		Model(&schema).
		ModelTableExpr("? AS u", s.ident()).
		On("CONFLICT (user_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put user: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.db.NewDelete().
		Model((*UserSchema)(nil)).
		ModelTableExpr("? AS u", s.ident()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ScanUsers reads the table in user_id order, one keyset page at a time.
func (s *PostgresStore) ScanUsers(ctx context.Context) ([]*User, error) {
	result := make([]*User, 0)
	after := ""
	for {
		var page []UserSchema
		query := s.db.NewSelect().
			Model(&page).
			ModelTableExpr("? AS u", s.ident()).
			OrderExpr("u.user_id ASC").
			Limit(s.pageSize)
		if after != "" {
			query = query.Where("u.user_id > ?", after)
		}
		if err := query.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}

		for _, schema := range page {
			result = append(result, schemaToUser(schema))
		}
		if len(page) < s.pageSize {
			return result, nil
		}
		after = page[len(page)-1].UserID
	}
}

func schemaToUser(schema UserSchema) *User {
	return &User{
		UserID: schema.UserID,
		Name:   schema.Name,
	}
}

func userToSchema(user *User) UserSchema {
	return UserSchema{
		UserID: user.UserID,
		Name:   user.Name,
	}
}
