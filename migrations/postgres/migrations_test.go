// Пакет postgres_test проверяет SQL-миграции PostgreSQL на живой базе
package postgres_test

import (
	"database/sql"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name=$1)`, name).Scan(&exists)
	require.NoError(t, err, "ошибка при проверке таблицы %s", name)
	return exists
}

// TestPostgresMigrations проверяет, что миграции применяются и откатываются полностью
func TestPostgresMigrations(t *testing.T) {
	dsn := os.Getenv("MIGRATION_TEST_DSN")
	if dsn == "" {
		t.Skip("MIGRATION_TEST_DSN env var not set; skipping Postgres migration tests")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "ошибка при открытии соединения с базой данных")
	defer func() {
		require.NoError(t, db.Close(), "ошибка при закрытии соединения с базой данных")
	}()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	require.NoError(t, err, "failed to create migrate driver")
	m, err := migrate.NewWithDatabaseInstance("file://.", "postgres", driver)
	require.NoError(t, err, "failed to create migrate instance")
	// чистое состояние
	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to rollback migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	for _, table := range []string{"products", "messages", "users"} {
		require.True(t, tableExists(t, db, table), "таблица %s должна существовать после миграций", table)
	}

	// значения по умолчанию у товара
	id := uuid.NewString()
	_, err = db.Exec(`INSERT INTO products (id, kind, priority) VALUES ($1, 'coffee', 1)`, id)
	require.NoError(t, err)
	var price string
	var visible bool
	err = db.QueryRow(`SELECT price, visible FROM products WHERE id=$1`, id).Scan(&price, &visible)
	require.NoError(t, err)
	require.Equal(t, "0.00", price)
	require.False(t, visible)

	// неизвестная категория отклоняется
	_, err = db.Exec(`INSERT INTO products (id, kind, priority) VALUES ($1, 'tea', 1)`, uuid.NewString())
	require.Error(t, err, "kind вне списка должен нарушать CHECK")

	var indexExists bool
	err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_indexes WHERE tablename='products' AND indexname='idx_products_kind_priority')`).Scan(&indexExists)
	require.NoError(t, err)
	require.True(t, indexExists, "индекс idx_products_kind_priority должен существовать")

	// имя отправителя сообщения может отсутствовать
	_, err = db.Exec(`INSERT INTO messages (id, contact_info, body) VALUES ($1, 'c', 'b')`, uuid.NewString())
	require.NoError(t, err)

	// логин уникален
	_, err = db.Exec(`INSERT INTO users (name, username, password_hash) VALUES ('Maria', 'admin', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (name, username, password_hash) VALUES ('Other', 'admin', 'y')`)
	require.Error(t, err)

	// полный откат
	if err := m.Steps(-3); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to rollback all migrations: %v", err)
	}
	for _, table := range []string{"products", "messages", "users"} {
		require.False(t, tableExists(t, db, table), "таблица %s должна быть удалена после отката", table)
	}
}
