package ordering

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CoffeeMill/internal/model"
)

func products(priorities ...int) []model.Product {
	out := make([]model.Product, 0, len(priorities))
	for i, p := range priorities {
		out = append(out, model.Product{ID: string(rune('a' + i)), Priority: p})
	}
	return out
}

func TestNextPriority(t *testing.T) {
	require.Equal(t, 1, NextPriority(nil))
	require.Equal(t, 4, NextPriority(products(1, 2, 3)))
	// берётся максимум, а не длина и не последний элемент
	require.Equal(t, 8, NextPriority(products(7, 2, 5)))
}

func TestLocker_SerialisesSameKind(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock(model.KindCoffee)

	acquired := make(chan struct{})
	go func() {
		u := l.Lock(model.KindCoffee)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock of the same kind must wait")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock was not acquired after unlock")
	}
}

func TestLocker_IndependentKinds(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock(model.KindCoffee)
	defer unlock()

	done := make(chan struct{})
	go func() {
		l.Lock(model.KindCake)()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of another kind must not block")
	}
}

func TestLocker_ConcurrentAssignmentIsUnique(t *testing.T) {
	l := NewLocker()
	var items []model.Product
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := l.Lock(model.KindTreat)
			defer unlock()
			items = append(items, model.Product{ID: string(rune(i)), Priority: NextPriority(items)})
		}(i)
	}
	wg.Wait()
	seen := map[int]bool{}
	for _, p := range items {
		require.False(t, seen[p.Priority], "duplicate priority %d", p.Priority)
		seen[p.Priority] = true
	}
	require.Len(t, seen, 50)
}
