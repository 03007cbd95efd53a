package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"CoffeeMill/internal/model"
	"CoffeeMill/internal/ordering"
	"CoffeeMill/internal/repository"
)

// ProductRepo определяет операции хранилища товаров, нужные каталогу
type ProductRepo interface {
	ListProducts(ctx context.Context, kind model.Kind, visibleOnly bool) ([]model.Product, error)
	GetProduct(ctx context.Context, kind model.Kind, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, kind model.Kind, id string) (*model.Product, []model.PriorityUpdate, error)
}

// Cache определяет интерфейс кэша списков (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// Logger публикует события аудита (NATS)
type Logger interface {
	PublishEvent(event interface{}) error
}

// ErrUnknownKind возвращается для категории, которой нет в model.Kinds
var ErrUnknownKind = errors.New("unknown product kind")

// DefaultCacheTTL - время жизни снимка списка в кэше
const DefaultCacheTTL = 1800 * time.Second

// View - проекция списка категории
type View string

const (
	ViewAll     View = "all"
	ViewVisible View = "visible"
)

// CacheKey возвращает ключ Redis для проекции категории
func CacheKey(kind model.Kind, view View) string {
	return fmt.Sprintf("products:%s:%s", kind, view)
}

// CatalogService реализует логику товаров для всех категорий:
// чтение через кэш, выдачу приоритета, изменения под мьютексом категории,
// инвалидацию обеих проекций и публикацию аудита
type CatalogService struct {
	repo   ProductRepo
	cache  Cache
	logger Logger
	locker *ordering.Locker
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time

	// поколение категории растёт при каждой инвалидации;
	// заполнение кэша, начатое до изменения, результат не сохраняет
	genMu sync.Mutex
	gen   map[model.Kind]uint64
}

// NewCatalogService создаёт сервис каталога; ttl <= 0 заменяется на DefaultCacheTTL
func NewCatalogService(r ProductRepo, c Cache, l Logger, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CatalogService{
		repo:   r,
		cache:  c,
		logger: l,
		locker: ordering.NewLocker(),
		ttl:    ttl,
		now:    time.Now,
		gen:    make(map[model.Kind]uint64),
	}
}

func (s *CatalogService) generation(kind model.Kind) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen[kind]
}

// List возвращает товары категории по приоритету.
// all=true - полный список (только для администратора), иначе только видимые
func (s *CatalogService) List(ctx context.Context, kind model.Kind, all bool) ([]model.Product, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	view := ViewVisible
	if all {
		view = ViewAll
	}
	key := CacheKey(kind, view)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		log.Printf("[catalog] corrupted cache entry %s, reloading", key)
	}

	gen := s.generation(kind)
	ch := s.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		return s.fill(context.WithoutCancel(ctx), kind, view, gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Product), nil
	}
}

// fill читает проекцию из хранилища и кладёт её в кэш, если категория
// не менялась с начала чтения. Заполнение, пересёкшееся с инвалидацией,
// сбрасывает свой ключ повторно
func (s *CatalogService) fill(ctx context.Context, kind model.Kind, view View, gen uint64) ([]model.Product, error) {
	key := CacheKey(kind, view)
	products, err := s.repo.ListProducts(ctx, kind, view == ViewVisible)
	if err != nil {
		return nil, err
	}
	if s.generation(kind) != gen {
		return products, nil
	}
	data, err := json.Marshal(products)
	if err != nil {
		return products, nil
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		log.Printf("[catalog] failed to cache %s: %v", key, err)
		return products, nil
	}
	if s.generation(kind) != gen {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			log.Printf("[catalog] failed to drop stale %s: %v", key, err)
		}
	}
	return products, nil
}

// Get возвращает товар по id; промах - (nil, nil)
func (s *CatalogService) Get(ctx context.Context, kind model.Kind, id string) (*model.Product, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	p, err := s.repo.GetProduct(ctx, kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Create добавляет товар в конец категории.
// Незаданные поля получают значения по умолчанию, приоритет из тела игнорируется
func (s *CatalogService) Create(ctx context.Context, kind model.Kind, in model.ProductInput, actor string) (*model.Product, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	unlock := s.locker.Lock(kind)
	defer unlock()

	existing, err := s.List(ctx, kind, true)
	if err != nil {
		return nil, err
	}
	p := model.Product{
		Kind:        kind,
		Name:        in.Name,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
		Priority:    ordering.NextPriority(existing),
	}
	if p.Price == "" {
		p.Price = model.DefaultPrice
	}
	if in.Visible != nil {
		p.Visible = *in.Visible
	}

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	log.Printf("[catalog] %s added %s %q {id: %s, priority: %d}", actor, kind, created.Name, created.ID, created.Priority)
	s.publish(kind, model.ActionCreate, actor, created)
	return created, nil
}

// Update применяет изменения к товару.
// Строковые поля и priority меняются, только если заданы и не пусты;
// visible перезаписывается всегда, отсутствие поля даёт false.
// Промах - (nil, nil) без инвалидации кэша
func (s *CatalogService) Update(ctx context.Context, kind model.Kind, id string, in model.ProductInput, actor string) (*model.Product, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	unlock := s.locker.Lock(kind)
	defer unlock()

	p, err := s.repo.GetProduct(ctx, kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	applyInput(p, in)

	updated, err := s.repo.UpdateProduct(ctx, *p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	log.Printf("[catalog] %s updated the %s %q", actor, kind, updated.Name)
	s.publish(kind, model.ActionUpdate, actor, updated)
	return updated, nil
}

func applyInput(p *model.Product, in model.ProductInput) {
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Price != "" {
		p.Price = in.Price
	}
	if in.Image != "" {
		p.Image = in.Image
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Priority != nil && *in.Priority != 0 {
		p.Priority = *in.Priority
	}
	p.Visible = in.Visible != nil && *in.Visible
}

// Delete удаляет товар и сдвигает следующие за ним на одну позицию.
// Промах - (nil, nil); кэш при этом всё равно сбрасывается
func (s *CatalogService) Delete(ctx context.Context, kind model.Kind, id, actor string) (*model.Product, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	unlock := s.locker.Lock(kind)
	defer unlock()

	deleted, shifted, err := s.repo.DeleteProduct(ctx, kind, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.invalidate(ctx, kind)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	log.Printf("[catalog] %s deleted %s {id: %s}, %d products shifted", actor, kind, deleted.ID, len(shifted))
	s.publish(kind, model.ActionDelete, actor, deleted)
	return deleted, nil
}

// invalidate сбрасывает обе проекции категории одной командой.
// Поколение растёт до DEL, чтобы незавершённое заполнение увидело изменение
func (s *CatalogService) invalidate(ctx context.Context, kind model.Kind) {
	s.genMu.Lock()
	s.gen[kind]++
	s.genMu.Unlock()
	if err := s.cache.Invalidate(ctx, CacheKey(kind, ViewAll), CacheKey(kind, ViewVisible)); err != nil {
		log.Printf("[catalog] failed to invalidate %s cache: %v", kind, err)
	}
}

func (s *CatalogService) publish(kind model.Kind, action, actor string, p *model.Product) {
	if s.logger == nil {
		return
	}
	e := model.AuditEvent{
		ID:        p.ID,
		Entity:    string(kind),
		Action:    action,
		Actor:     actor,
		Name:      p.Name,
		Priority:  p.Priority,
		Visible:   p.Visible,
		EventTime: s.now().UTC(),
	}
	if err := s.logger.PublishEvent(e); err != nil {
		log.Printf("[catalog] failed to publish audit event: %v", err)
	}
}
