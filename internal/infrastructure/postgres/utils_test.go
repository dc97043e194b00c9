package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/config"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "sale_items_product_id_fkey"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")), "fallback por texto")
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isCheckViolation(check))
	assert.Equal(t, "sale_items_product_id_fkey", constraintName(fk))
	assert.Equal(t, "", constraintName(errors.New("otro")))
}

func TestNullIfEmptyAndLimit(t *testing.T) {
	assert.Nil(t, nullIfEmpty("   "))
	require.NotNil(t, nullIfEmpty(" TEC-1 "))
	assert.Equal(t, "TEC-1", *nullIfEmpty(" TEC-1 "))

	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 20, *limitOrAll(20))
}

func TestMigrationsEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	script, err := migrationsFS.ReadFile(files[0])
	require.NoError(t, err)
	for _, table := range []string{"clients", "products", "categories", "sales", "sale_items", "users"} {
		assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS "+table+" ", "falta la tabla %s", table)
	}
	assert.True(t, strings.Contains(string(script), "CHECK (stock >= 0)"))
}

func TestPoolConfig(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5432, User: "ventas", Password: "secreto", DBName: "ventas", SSLMode: "disable", MaxConns: 8, MinConns: 2}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "ventas", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)

	// MinConns mayor que MaxConns se ignora
	cfg.MinConns = 50
	pc, err = poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(0), pc.MinConns)

	_, err = poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
