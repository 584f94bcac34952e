package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/models"
)

func (db *DB) CreateService(ctx context.Context, service *models.Service) error {
	query := `INSERT INTO services (name, description, duration_minutes, price_cents, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		service.Name,
		service.Description,
		service.DurationMinutes,
		service.PriceCents,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	service.ID = id
	service.CreatedAt = now
	service.UpdatedAt = now
	return nil
}

func (db *DB) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT id, name, description, duration_minutes, price_cents, created_at, updated_at
              FROM services WHERE id = ?`
	var s models.Service
	err := db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &s, nil
}

func (db *DB) ListServices(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT id, name, description, duration_minutes, price_cents, created_at, updated_at
              FROM services ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		var s models.Service
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}

// AssignService links a provider to a service it can perform. Repeat
// assignments are no-ops.
func (db *DB) AssignService(ctx context.Context, providerID, serviceID int64) error {
	query := `INSERT INTO provider_services (provider_id, service_id) VALUES (?, ?)
              ON CONFLICT(provider_id, service_id) DO NOTHING`
	_, err := db.ExecContext(ctx, query, providerID, serviceID)
	if err != nil {
		return fmt.Errorf("failed to assign service to provider: %w", err)
	}
	return nil
}

// GetProvidersForService returns providers able to perform a service.
func (db *DB) GetProvidersForService(ctx context.Context, serviceID int64) ([]*models.ServiceProvider, error) {
	query := `SELECT p.id, p.user_id, TRIM(u.first_name || ' ' || u.last_name), p.phone, p.specialization, p.created_at
              FROM service_providers p
              JOIN users u ON u.id = p.user_id
              JOIN provider_services ps ON ps.provider_id = p.id
              WHERE ps.service_id = ?
              ORDER BY p.id ASC`
	rows, err := db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get providers for service: %w", err)
	}
	defer rows.Close()
	return collectProviders(rows)
}

// GetProviderServices returns the services a provider performs.
func (db *DB) GetProviderServices(ctx context.Context, providerID int64) ([]*models.Service, error) {
	query := `SELECT s.id, s.name, s.description, s.duration_minutes, s.price_cents, s.created_at, s.updated_at
              FROM services s
              JOIN provider_services ps ON ps.service_id = s.id
              WHERE ps.provider_id = ?
              ORDER BY s.name ASC`
	rows, err := db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		var s models.Service
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, &s)
	}
	return services, rows.Err()
}
