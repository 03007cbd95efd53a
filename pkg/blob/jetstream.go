// Пакет blob хранит бинарные файлы (изображения товаров) в NATS JetStream Object Store
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// ErrNotFound возвращается при удалении отсутствующего объекта
var ErrNotFound = errors.New("object not found")

// ObjectInfo - метаданные сохранённого объекта, отдаются клиенту после загрузки
type ObjectInfo struct {
	Name        string    `json:"name"`
	Bucket      string    `json:"bucket"`
	Size        uint64    `json:"size"`
	ContentType string    `json:"contentType"`
	ModTime     time.Time `json:"modTime"`
}

// objectStore - подмножество jetstream.ObjectStore, которое используется хранилищем
type objectStore interface {
	Put(ctx context.Context, meta jetstream.ObjectMeta, reader io.Reader) (*jetstream.ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// Store реализует загрузку и удаление объектов в бакете JetStream
type Store struct {
	store  objectStore
	bucket string
}

// Open подключается к бакету bucket, создавая его при отсутствии
func Open(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	st, err := js.ObjectStore(ctx, bucket)
	if err == nil {
		return &Store{store: st, bucket: bucket}, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, fmt.Errorf("failed to open object store bucket: %w", err)
	}
	st, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      bucket,
		Description: "Product images",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store bucket: %w", err)
	}
	return &Store{store: st, bucket: bucket}, nil
}

// Upload сохраняет данные под ключом key с указанным content type
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (*ObjectInfo, error) {
	meta := jetstream.ObjectMeta{
		Name: key,
		Headers: nats.Header{
			"Content-Type": []string{contentType},
		},
	}
	info, err := s.store.Put(ctx, meta, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}
	return &ObjectInfo{
		Name:        info.Name,
		Bucket:      s.bucket,
		Size:        info.Size,
		ContentType: contentType,
		ModTime:     info.ModTime,
	}, nil
}

// Delete удаляет объект key; отсутствующий объект даёт ErrNotFound
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
