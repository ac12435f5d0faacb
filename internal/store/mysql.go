package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"go.opentelemetry.io/otel/attribute"
)

// MySQLStore implements the repositories over a MySQL database. The product,
// buyer and seller snapshots embedded in a deal are stored as JSON columns so
// historical deals stay immutable when the catalog changes.
type MySQLStore struct {
	db      *sql.DB
	metrics *metrics.AppMetrics
}

// OpenMySQLStore opens an otelsql-instrumented MySQL connection
func OpenMySQLStore(dsn string, m *metrics.AppMetrics, serviceName string) (*MySQLStore, error) {
	driverName, err := otelsql.Register("mysql",
		otelsql.WithAttributes(
			attribute.String("db.system", "mysql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(
		attribute.String("db.system", "mysql"),
		attribute.String("service.name", serviceName),
	)); err != nil {
		log.Printf("Warning: failed to register otelsql stats metrics: %v", err)
	}

	return &MySQLStore{db: db, metrics: m}, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error { return s.db.Close() }

// InitSchema executes the schema SQL statement by statement
func (s *MySQLStore) InitSchema(ctx context.Context, schemaSQL string) error {
	for i, stmt := range splitSQLStatements(schemaSQL) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	log.Println("Database schema initialized successfully")
	return nil
}

// splitSQLStatements splits a SQL string into individual statements,
// dropping comment lines and empty fragments
func splitSQLStatements(schemaSQL string) []string {
	var cleaned []string
	for _, line := range strings.Split(schemaSQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
			cleaned = append(cleaned, line)
		}
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// SeedIfEmpty inserts the demo fixture when the deals table is empty
func (s *MySQLStore) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deals").Scan(&count); err != nil {
		return fmt.Errorf("failed to count deals: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range SeedProducts() {
		if err := s.insertProduct(ctx, &p); err != nil {
			return err
		}
	}
	for _, d := range SeedDeals() {
		if err := s.CreateDeal(ctx, &d); err != nil {
			return err
		}
	}
	log.Println("Database seeded with demo catalog and deals")
	return nil
}

func (s *MySQLStore) insertProduct(ctx context.Context, p *models.Product) error {
	start := time.Now()
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	query := "INSERT INTO products (id, category, price, created_at, doc) VALUES (?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query, p.ID, p.Category, p.Price, p.CreatedAt, doc)
	s.metrics.RecordDBQuery(ctx, "INSERT", "products", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// ListDeals returns all deals ordered by creation time descending
func (s *MySQLStore) ListDeals(ctx context.Context) ([]models.Deal, error) {
	start := time.Now()
	query := "SELECT doc FROM deals ORDER BY created_at DESC"
	rows, err := s.db.QueryContext(ctx, query)
	s.metrics.RecordDBQuery(ctx, "SELECT", "deals", query, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		var d models.Deal
		if err := json.Unmarshal(doc, &d); err != nil {
			return nil, fmt.Errorf("failed to decode deal: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// GetDeal returns the deal with the given id
func (s *MySQLStore) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	start := time.Now()
	query := "SELECT doc FROM deals WHERE id = ?"
	var doc []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	s.metrics.RecordDBQuery(ctx, "SELECT", "deals", query, start, err == nil)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	var d models.Deal
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("failed to decode deal: %w", err)
	}
	return &d, nil
}

// CreateDeal inserts a new deal row
func (s *MySQLStore) CreateDeal(ctx context.Context, d *models.Deal) error {
	start := time.Now()
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}
	query := "INSERT INTO deals (id, status, created_at, updated_at, doc) VALUES (?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query, d.ID, string(d.Status), d.CreatedAt, d.UpdatedAt, doc)
	s.metrics.RecordDBQuery(ctx, "INSERT", "deals", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to insert deal: %w", err)
	}
	return nil
}

// UpdateDeal replaces the stored deal with the same id
func (s *MySQLStore) UpdateDeal(ctx context.Context, d *models.Deal) error {
	start := time.Now()
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal deal: %w", err)
	}
	query := "UPDATE deals SET status = ?, updated_at = ?, doc = ? WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, string(d.Status), d.UpdatedAt, doc, d.ID)
	s.metrics.RecordDBQuery(ctx, "UPDATE", "deals", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns the catalog ordered by creation time descending
func (s *MySQLStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	start := time.Now()
	query := "SELECT doc FROM products ORDER BY created_at DESC"
	rows, err := s.db.QueryContext(ctx, query)
	s.metrics.RecordDBQuery(ctx, "SELECT", "products", query, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		var p models.Product
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns the product with the given id
func (s *MySQLStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	start := time.Now()
	query := "SELECT doc FROM products WHERE id = ?"
	var doc []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	s.metrics.RecordDBQuery(ctx, "SELECT", "products", query, start, err == nil)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	var p models.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

// ListFavorites returns the favorited product ids
func (s *MySQLStore) ListFavorites(ctx context.Context) ([]string, error) {
	start := time.Now()
	query := "SELECT product_id FROM favorites ORDER BY created_at"
	rows, err := s.db.QueryContext(ctx, query)
	s.metrics.RecordDBQuery(ctx, "SELECT", "favorites", query, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddFavorite adds productID to the favorites set; adding twice is a no-op
func (s *MySQLStore) AddFavorite(ctx context.Context, productID string) error {
	start := time.Now()
	query := "INSERT IGNORE INTO favorites (product_id, created_at) VALUES (?, ?)"
	_, err := s.db.ExecContext(ctx, query, productID, time.Now())
	s.metrics.RecordDBQuery(ctx, "INSERT", "favorites", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes productID from the favorites set if present
func (s *MySQLStore) RemoveFavorite(ctx context.Context, productID string) error {
	start := time.Now()
	query := "DELETE FROM favorites WHERE product_id = ?"
	_, err := s.db.ExecContext(ctx, query, productID)
	s.metrics.RecordDBQuery(ctx, "DELETE", "favorites", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
