package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"CoffeeMill/internal/model"
	"CoffeeMill/internal/repository"
)

// MessageRepo определяет операции хранилища сообщений
type MessageRepo interface {
	CreateMessage(ctx context.Context, m model.Message) (*model.Message, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	MarkViewed(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) (*model.Message, error)
}

// Notifier уведомляет администратора о новом сообщении (email)
type Notifier interface {
	Notify(ctx context.Context, msg model.Message) error
}

// DefaultNotifyTimeout ограничивает отправку одного уведомления
const DefaultNotifyTimeout = 30 * time.Second

// MessageService реализует приём и просмотр сообщений обратной связи
type MessageService struct {
	repo          MessageRepo
	notifier      Notifier
	logger        Logger
	notifyTimeout time.Duration
	now           func() time.Time

	// wg отслеживает отправку уведомлений, Wait используется при остановке
	wg sync.WaitGroup
}

// NewMessageService создаёт сервис сообщений
func NewMessageService(r MessageRepo, n Notifier, l Logger) *MessageService {
	return &MessageService{repo: r, notifier: n, logger: l, notifyTimeout: DefaultNotifyTimeout, now: time.Now}
}

// Submit сохраняет сообщение и запускает одно уведомление в фоне.
// Ответ не ждёт отправки письма, ошибки отправки только логируются
func (s *MessageService) Submit(ctx context.Context, m model.Message) (*model.Message, error) {
	saved, err := s.repo.CreateMessage(ctx, m)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		msg := *saved
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			nctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
			defer cancel()
			if err := s.notifier.Notify(nctx, msg); err != nil {
				log.Printf("[messages] failed to notify about message %s: %v", msg.ID, err)
				return
			}
			log.Printf("[messages] a new message has been submitted: %s", msg.ID)
		}()
	}
	return saved, nil
}

// Wait дожидается фоновых уведомлений
func (s *MessageService) Wait() {
	s.wg.Wait()
}

// List возвращает все сообщения, новые первыми
func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	return s.repo.ListMessages(ctx)
}

// View возвращает сообщение и отмечает его прочитанным; промах - (nil, nil)
func (s *MessageService) View(ctx context.Context, id string) (*model.Message, error) {
	m, err := s.repo.GetMessage(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Viewed {
		return m, nil
	}
	if err := s.repo.MarkViewed(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	m.Viewed = true
	return m, nil
}

// Delete удаляет сообщение; промах - (nil, nil)
func (s *MessageService) Delete(ctx context.Context, id, actor string) (*model.Message, error) {
	m, err := s.repo.DeleteMessage(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[messages] %s deleted message {id: %s}", actor, m.ID)
	if s.logger != nil {
		e := model.AuditEvent{ID: m.ID, Entity: "message", Action: model.ActionDelete, Actor: actor, EventTime: s.now().UTC()}
		if err := s.logger.PublishEvent(e); err != nil {
			log.Printf("[messages] failed to publish audit event: %v", err)
		}
	}
	return m, nil
}
