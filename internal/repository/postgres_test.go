// Пакет repository содержит unit-тесты для слоя доступа к данным
package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"CoffeeMill/internal/model"
)

var productCols = []string{"id", "kind", "name", "price", "image", "description", "priority", "visible", "created_at", "updated_at"}

const (
	idA = "8b1f6c3e-4a2d-4f7b-9e51-0c2d3a4b5c6d"
	idB = "1c9e7d5a-2b3c-4d5e-8f60-718293a4b5c6"
)

// TestListProducts: все товары категории, по возрастанию приоритета
func TestListProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + productColumns + " FROM products WHERE kind=$1 ORDER BY priority ASC")).
		WithArgs("coffee").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(idA, "coffee", "Latte", "2.50", "latte.jpg", "milky", 1, true, now, now).
			AddRow(idB, "coffee", "Mocha", "3.00", "", "", 2, false, now, now))

	products, err := repo.ListProducts(context.Background(), model.KindCoffee, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 || products[0].Name != "Latte" || products[1].Priority != 2 || products[1].Visible {
		t.Fatalf("unexpected products: %+v", products)
	}
	if products[0].Kind != model.KindCoffee {
		t.Errorf("kind not scanned: %q", products[0].Kind)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestListProducts_VisibleOnly: публичная выборка фильтрует visible=true и пустой результат - не nil
func TestListProducts_VisibleOnly(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE kind=$1 AND visible=true ORDER BY priority ASC")).
		WithArgs("cake").
		WillReturnRows(sqlmock.NewRows(productCols))

	products, err := repo.ListProducts(context.Background(), model.KindCake, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", products)
	}
}

// TestListProducts_QueryError: ошибка базы оборачивается
func TestListProducts_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListProducts(context.Background(), model.KindTreat, false)
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected query error, got %v", err)
	}
}

// TestGetProduct: успешное чтение, промах и некорректный id
func TestGetProduct(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()
	now := time.Now()
	query := regexp.QuoteMeta("SELECT " + productColumns + " FROM products WHERE id=$1 AND kind=$2")

	mock.ExpectQuery(query).
		WithArgs(idA, "treat").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(idA, "treat", "Brownie", "1.20", "", "", 4, true, now, now))
	p, err := repo.GetProduct(ctx, model.KindTreat, idA)
	if err != nil || p.Name != "Brownie" || p.Priority != 4 {
		t.Fatalf("unexpected result %+v, %v", p, err)
	}

	mock.ExpectQuery(query).WithArgs(idB, "treat").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetProduct(ctx, model.KindTreat, idB)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// некорректный UUID не доходит до базы
	_, err = repo.GetProduct(ctx, model.KindTreat, "not-a-uuid")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestCreateProduct: вставка с генерацией UUID и временем из RETURNING
func TestCreateProduct(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products(id, kind, name, price, image, description, priority, visible)")).
		WithArgs(sqlmock.AnyArg(), "cake", "Carrot", "0.00", "", "", 3, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	p, err := repo.CreateProduct(context.Background(), model.Product{Kind: model.KindCake, Name: "Carrot", Price: "0.00", Priority: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Errorf("id is not a uuid: %q", p.ID)
	}
	if !p.CreatedAt.Equal(created) || !p.UpdatedAt.Equal(created) {
		t.Errorf("timestamps not set: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestCreateProduct_InsertError: ошибка INSERT пробрасывается
func TestCreateProduct_InsertError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	mock.ExpectQuery("INSERT INTO products").WillReturnError(errors.New("insert failed"))

	_, err := repo.CreateProduct(context.Background(), model.Product{Kind: model.KindCake})
	if err == nil || !strings.Contains(err.Error(), "insert failed") {
		t.Fatalf("expected insert error, got %v", err)
	}
}

// TestUpdateProduct: обновление всех полей и отсутствие записи
func TestUpdateProduct(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()
	updated := time.Now()
	query := regexp.QuoteMeta("UPDATE products SET name=$1, price=$2, image=$3, description=$4, priority=$5, visible=$6, updated_at=now()")

	mock.ExpectQuery(query).
		WithArgs("Flat White", "2.80", "fw.jpg", "strong", 2, false, idA, "coffee").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))
	p, err := repo.UpdateProduct(ctx, model.Product{ID: idA, Kind: model.KindCoffee, Name: "Flat White", Price: "2.80", Image: "fw.jpg", Description: "strong", Priority: 2})
	if err != nil || !p.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected result %+v, %v", p, err)
	}

	mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)
	_, err = repo.UpdateProduct(ctx, model.Product{ID: idB, Kind: model.KindCoffee})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestDeleteProduct: DELETE + сдвиг приоритетов + COMMIT в одной транзакции
func TestDeleteProduct(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM products WHERE id=$1 AND kind=$2 RETURNING")).
		WithArgs(idA, "coffee").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(idA, "coffee", "Latte", "2.50", "", "", 2, true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET priority = priority - 1 WHERE kind=$1 AND priority > $2 RETURNING id, priority")).
		WithArgs("coffee", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "priority"}).AddRow(idB, 2).AddRow("c", 3))
	mock.ExpectCommit()

	deleted, updates, err := repo.DeleteProduct(context.Background(), model.KindCoffee, idA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != idA || deleted.Priority != 2 {
		t.Errorf("unexpected deleted product %+v", deleted)
	}
	want := []model.PriorityUpdate{{ID: idB, Priority: 2}, {ID: "c", Priority: 3}}
	if len(updates) != 2 || updates[0] != want[0] || updates[1] != want[1] {
		t.Errorf("updates = %+v, want %+v", updates, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestDeleteProduct_NotFound: отсутствующая запись откатывает транзакцию
func TestDeleteProduct_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM products").WithArgs(idB, "cake").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.DeleteProduct(context.Background(), model.KindCake, idB)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestDeleteProduct_ShiftError: ошибка сдвига откатывает удаление целиком
func TestDeleteProduct_ShiftError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM products").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(idA, "treat", "Cookie", "1.00", "", "", 1, true, now, now))
	mock.ExpectQuery("UPDATE products SET priority").WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, _, err := repo.DeleteProduct(context.Background(), model.KindTreat, idA)
	if err == nil || !strings.Contains(err.Error(), "deadlock detected") {
		t.Fatalf("expected shift error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestDeleteProduct_CommitError: ошибка COMMIT возвращается вызывающему
func TestDeleteProduct_CommitError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM products").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(idA, "treat", "Cookie", "1.00", "", "", 5, true, now, now))
	mock.ExpectQuery("UPDATE products SET priority").WithArgs("treat", 5).WillReturnRows(sqlmock.NewRows([]string{"id", "priority"}))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, _, err := repo.DeleteProduct(context.Background(), model.KindTreat, idA)
	if err == nil || !strings.Contains(err.Error(), "commit failed") {
		t.Fatalf("expected commit error, got %v", err)
	}
}
