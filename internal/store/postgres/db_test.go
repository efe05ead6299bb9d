package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ConnString(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		Database: "storepulse",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=storepulse sslmode=disable", cfg.DSN())
	assert.Equal(t, cfg.DSN(), cfg.ConnString())

	cfg.MaxOpenConns = 10
	cfg.MaxIdleConns = 2
	assert.Equal(t, cfg.DSN()+" pool_max_conns=10 pool_min_conns=2", cfg.ConnString())
}

func TestInitialSchema_DeclaresUpsertKeys(t *testing.T) {
	for _, table := range []string{"products", "customers", "orders"} {
		assert.Contains(t, InitialSchema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, InitialSchema, "external_id TEXT          NOT NULL UNIQUE")
	assert.Contains(t, InitialSchema, "customer_id          BIGINT REFERENCES customers(id) ON DELETE SET NULL")
}
