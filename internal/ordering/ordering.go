// Пакет ordering поддерживает плотный порядок товаров внутри категории:
// выдаёт приоритет новому товару и сериализует изменения одной категории.
// Закрытие «дыры» при удалении выполняется репозиторием в одной транзакции
package ordering

import (
	"sync"

	"CoffeeMill/internal/model"
)

// NextPriority возвращает приоритет для нового товара: максимум среди
// существующих плюс один, либо 1 для пустой категории
func NextPriority(items []model.Product) int {
	top := 0
	for _, p := range items {
		if p.Priority > top {
			top = p.Priority
		}
	}
	return top + 1
}

// Locker выдаёт мьютекс на каждую категорию.
// Создание, изменение и удаление товаров одной категории выполняются под ним,
// поэтому параллельные создания не получают одинаковый приоритет
type Locker struct {
	mu    sync.Mutex
	kinds map[model.Kind]*sync.Mutex
}

// NewLocker создаёт пустой Locker
func NewLocker() *Locker {
	return &Locker{kinds: make(map[model.Kind]*sync.Mutex)}
}

// Lock захватывает мьютекс категории и возвращает функцию освобождения
func (l *Locker) Lock(kind model.Kind) (unlock func()) {
	l.mu.Lock()
	m, ok := l.kinds[kind]
	if !ok {
		m = &sync.Mutex{}
		l.kinds[kind] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
