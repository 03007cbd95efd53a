package model

import "time"

// Kind задаёт категорию товара (кофе, десерты, торты).
// Все категории устроены одинаково и хранятся в одной таблице products
type Kind string

const (
	KindCoffee Kind = "coffee"
	KindTreat  Kind = "treat"
	KindCake   Kind = "cake"
)

// Kinds перечисляет категории в порядке регистрации маршрутов
var Kinds = []Kind{KindCoffee, KindTreat, KindCake}

// kindPaths - сегменты URL для категорий (исторические имена маршрутов API)
var kindPaths = map[Kind]string{
	KindCoffee: "coffee",
	KindTreat:  "treats",
	KindCake:   "cakes",
}

// Path возвращает сегмент URL для категории
func (k Kind) Path() string {
	if p, ok := kindPaths[k]; ok {
		return p
	}
	return string(k)
}

// Valid сообщает, является ли категория известной
func (k Kind) Valid() bool {
	_, ok := kindPaths[k]
	return ok
}

// DefaultPrice подставляется при создании товара без цены
const DefaultPrice = "0.00"

// Product представляет товар любой категории (таблица products)
type Product struct {
	ID          string    `db:"id" json:"id"`
	Kind        Kind      `db:"kind" json:"kind"`
	Name        string    `db:"name" json:"name"`
	Price       string    `db:"price" json:"price"`
	Image       string    `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	Priority    int       `db:"priority" json:"priority"`
	Visible     bool      `db:"visible" json:"visible"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductInput - тело запроса на создание или обновление товара.
// Priority и Visible указатели: отсутствие поля отличается от нуля
type ProductInput struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Priority    *int   `json:"priority"`
	Visible     *bool  `json:"visible"`
}

// PriorityUpdate представляет новый приоритет товара после сдвига
type PriorityUpdate struct {
	ID       string `db:"id" json:"id"`
	Priority int    `db:"priority" json:"priority"`
}

// Message - сообщение из формы обратной связи (таблица messages)
type Message struct {
	ID          string    `db:"id" json:"id"`
	Name        *string   `db:"name" json:"name,omitempty"`
	ContactInfo string    `db:"contact_info" json:"contactInfo"`
	Body        string    `db:"body" json:"message"`
	Viewed      bool      `db:"viewed" json:"viewed"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}

// User - учётная запись администратора (таблица users)
type User struct {
	ID           int    `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Действия для журнала аудита
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEvent - событие изменения данных, публикуется в NATS и пишется в ClickHouse
type AuditEvent struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Name      string    `json:"name"`
	Priority  int       `json:"priority"`
	Visible   bool      `json:"visible"`
	EventTime time.Time `json:"eventTime"`
}
