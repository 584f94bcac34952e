package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, email, first_name, last_name, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, first_name, last_name, created_at, updated_at
              FROM users WHERE id = ?`
	var u models.User
	err := db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (db *DB) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (user_id, phone, birth_date, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, customer.UserID, customer.Phone, customer.BirthDate, now)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	customer.ID = id
	customer.CreatedAt = now
	return nil
}

func (db *DB) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT id, user_id, phone, birth_date, created_at FROM customers WHERE id = ?`
	var c models.Customer
	err := db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.Phone, &c.BirthDate, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (db *DB) GetCustomerByUser(ctx context.Context, userID int64) (*models.Customer, error) {
	query := `SELECT id, user_id, phone, birth_date, created_at FROM customers WHERE user_id = ?`
	var c models.Customer
	err := db.QueryRowContext(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.Phone, &c.BirthDate, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by user: %w", err)
	}
	return &c, nil
}

func (db *DB) CreateProvider(ctx context.Context, provider *models.ServiceProvider) error {
	query := `INSERT INTO service_providers (user_id, phone, specialization, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, provider.UserID, provider.Phone, provider.Specialization, now)
	if err != nil {
		return fmt.Errorf("failed to create service provider: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	provider.ID = id
	provider.CreatedAt = now
	return nil
}

func (db *DB) GetProvider(ctx context.Context, id int64) (*models.ServiceProvider, error) {
	query := `SELECT p.id, p.user_id, TRIM(u.first_name || ' ' || u.last_name), p.phone, p.specialization, p.created_at
              FROM service_providers p
              JOIN users u ON u.id = p.user_id
              WHERE p.id = ?`
	var p models.ServiceProvider
	err := db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Name, &p.Phone, &p.Specialization, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service provider: %w", err)
	}
	return &p, nil
}

func (db *DB) ListProviders(ctx context.Context) ([]*models.ServiceProvider, error) {
	query := `SELECT p.id, p.user_id, TRIM(u.first_name || ' ' || u.last_name), p.phone, p.specialization, p.created_at
              FROM service_providers p
              JOIN users u ON u.id = p.user_id
              ORDER BY p.id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list service providers: %w", err)
	}
	defer rows.Close()
	return collectProviders(rows)
}

func collectProviders(rows *sql.Rows) ([]*models.ServiceProvider, error) {
	var providers []*models.ServiceProvider
	for rows.Next() {
		var p models.ServiceProvider
		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Phone, &p.Specialization, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service provider: %w", err)
		}
		providers = append(providers, &p)
	}
	return providers, rows.Err()
}

func (db *DB) CreateManager(ctx context.Context, manager *models.Manager) error {
	query := `INSERT INTO managers (user_id, phone, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, manager.UserID, manager.Phone, now)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	manager.ID = id
	manager.CreatedAt = now
	return nil
}

func (db *DB) CreateAdministrator(ctx context.Context, admin *models.Administrator) error {
	query := `INSERT INTO administrators (user_id, phone, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, admin.UserID, admin.Phone, now)
	if err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	admin.ID = id
	admin.CreatedAt = now
	return nil
}

// IsManager reports whether the user holds a manager profile.
func (db *DB) IsManager(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM managers WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check manager role: %w", err)
	}
	return count > 0, nil
}

// IsAdministrator reports whether the user holds an administrator profile.
func (db *DB) IsAdministrator(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM administrators WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check administrator role: %w", err)
	}
	return count > 0, nil
}
