package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet-campus-admin/internal/config"
	"fleet-campus-admin/internal/infrastructure/database/postgres/models"
	"fleet-campus-admin/internal/logger"
	appErrors "fleet-campus-admin/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const uniqueViolationCode = "23505"

type DB struct {
	*gorm.DB
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	var gormLogLevel gormLogger.LogLevel
	if cfg.Server.Environment == "production" {
		gormLogLevel = gormLogger.Warn
	} else {
		gormLogLevel = gormLogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", 25),
		zap.Int("max_idle_connections", 5),
	)

	return &DB{DB: db}, nil
}

// NewFromGorm wraps an already opened gorm handle.
func NewFromGorm(db *gorm.DB) *DB {
	return &DB{DB: db}
}

// Migrate creates or updates every table the service owns.
func (d *DB) Migrate() error {
	if err := d.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Info("Database schema migrated", zap.Int("tables", len(models.All())))
	return nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type txKey struct{}

// conn returns the transaction bound to ctx by WithinTx, or the pool.
func (d *DB) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.DB.WithContext(ctx)
}

// WithinTx runs fn in a transaction. Nested calls reuse the outer one.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// constraintFields maps unique constraint names to the column they guard.
var constraintFields = map[string]string{
	"idx_vehicles_license_plate":   "license_plate",
	"idx_vehicles_vin":             "vin",
	"idx_drivers_email":            "email",
	"idx_drivers_license_number":   "license_number",
	"idx_driver_attendance_day":    "date",
	"idx_trips_trip_number":        "trip_number",
	"idx_fuel_budgets_scope":       "start_date",
	"idx_students_student_id":      "student_id",
	"idx_students_email_id":        "email_id",
	"idx_student_attendance_day":   "date",
	"idx_users_email":              "email",
	"idx_users_username":           "username",
	"idx_refresh_tokens_hash":      "token_hash",
	"idx_trip_checkpoints_ordinal": "sequence",
}

// translateError converts a postgres unique violation into a typed error
// naming the conflicting field and wraps anything else with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &appErrors.UniqueViolationError{
			Field:      fieldForConstraint(pgErr.ConstraintName),
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &appErrors.UniqueViolationError{Err: err}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

func fieldForConstraint(name string) string {
	if field, ok := constraintFields[name]; ok {
		return field
	}
	// gorm names single-column unique indexes idx_<table>_<column>
	for _, table := range models.TableNames() {
		prefix := "idx_" + table + "_"
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}

func sortClause(sortBy, sortOrder string, allowed map[string]bool, fallback string) string {
	if !allowed[sortBy] {
		sortBy = fallback
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return fmt.Sprintf("%s %s", sortBy, order)
}
