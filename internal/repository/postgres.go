package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"CoffeeMill/internal/model"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// productColumns - порядок колонок для scanProduct
const productColumns = `id, kind, name, price, image, description, priority, visible, created_at, updated_at`

// ProductRepository реализует доступ к таблице products для всех категорий
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.Price, &p.Image, &p.Description, &p.Priority, &p.Visible, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// validID проверяет, что id - корректный UUID; иначе запись заведомо не существует
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ListProducts возвращает товары категории, отсортированные по приоритету.
// visibleOnly ограничивает выборку товарами с visible=true
func (r *ProductRepository) ListProducts(ctx context.Context, kind model.Kind, visibleOnly bool) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE kind=$1 ORDER BY priority ASC`
	if visibleOnly {
		query = `SELECT ` + productColumns + ` FROM products WHERE kind=$1 AND visible=true ORDER BY priority ASC`
	}
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()
	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetProduct возвращает товар категории по id
func (r *ProductRepository) GetProduct(ctx context.Context, kind model.Kind, id string) (*model.Product, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1 AND kind=$2`, id, string(kind))
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// CreateProduct добавляет товар; id генерируется здесь, created_at/updated_at - базой
func (r *ProductRepository) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	p.ID = uuid.NewString()
	query := `INSERT INTO products(id, kind, name, price, image, description, priority, visible)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, string(p.Kind), p.Name, p.Price, p.Image, p.Description, p.Priority, p.Visible).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &p, nil
}

// UpdateProduct сохраняет все изменяемые поля товара и выставляет updated_at
func (r *ProductRepository) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if !validID(p.ID) {
		return nil, ErrNotFound
	}
	query := `UPDATE products SET name=$1, price=$2, image=$3, description=$4, priority=$5, visible=$6, updated_at=now()
		WHERE id=$7 AND kind=$8
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Price, p.Image, p.Description, p.Priority, p.Visible, p.ID, string(p.Kind)).
		Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &p, nil
}

// DeleteProduct удаляет товар и закрывает «дыру» в порядке категории одной транзакцией:
// все товары с приоритетом выше удалённого сдвигаются на единицу вниз.
// Возвращает удалённый товар и список изменённых приоритетов
func (r *ProductRepository) DeleteProduct(ctx context.Context, kind model.Kind, id string) (*model.Product, []model.PriorityUpdate, error) {
	if !validID(id) {
		return nil, nil, ErrNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	// удаляем с возвратом записи, строка блокируется до конца транзакции
	row := tx.QueryRowContext(ctx, `DELETE FROM products WHERE id=$1 AND kind=$2 RETURNING `+productColumns, id, string(kind))
	deleted, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to delete product: %w", err)
	}
	// сдвигаем -1 всех, чей priority больше удалённого
	rows, err := tx.QueryContext(ctx, `UPDATE products SET priority = priority - 1 WHERE kind=$1 AND priority > $2 RETURNING id, priority`, string(kind), deleted.Priority)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to shift priorities down: %w", err)
	}
	var updates []model.PriorityUpdate
	for rows.Next() {
		var pu model.PriorityUpdate
		if err := rows.Scan(&pu.ID, &pu.Priority); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan shifted priority: %w", err)
		}
		updates = append(updates, pu)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, fmt.Errorf("failed to shift priorities down: %w", err)
	}
	rows.Close()
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return deleted, updates, nil
}
