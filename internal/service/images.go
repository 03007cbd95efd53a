package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"CoffeeMill/pkg/blob"
)

// ErrInvalidImage возвращается для пустого имени или некорректного base64
var ErrInvalidImage = errors.New("invalid image payload")

// ImageContentType - тип содержимого загружаемых изображений
const ImageContentType = "image/jpg"

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// BlobStore - хранилище изображений (JetStream Object Store)
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (*blob.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// ImageService загружает и удаляет изображения товаров
type ImageService struct {
	store BlobStore
}

// NewImageService создаёт сервис изображений
func NewImageService(store BlobStore) *ImageService {
	return &ImageService{store: store}
}

// ImageKey возвращает имя объекта для изображения name
func ImageKey(name string) string {
	return name + ".jpg"
}

// DecodeImage снимает префикс data URI и декодирует base64
func DecodeImage(encoded string) ([]byte, error) {
	raw := dataURIPrefix.ReplaceAllString(strings.TrimSpace(encoded), "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	return data, nil
}

// Upload декодирует изображение и сохраняет его как {name}.jpg
func (s *ImageService) Upload(ctx context.Context, name, encoded, actor string) (*blob.ObjectInfo, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidImage)
	}
	data, err := DecodeImage(encoded)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Upload(ctx, ImageKey(name), data, ImageContentType)
	if err != nil {
		return nil, err
	}
	log.Printf("[images] %s uploaded %s (%d bytes)", actor, info.Name, info.Size)
	return info, nil
}

// Delete удаляет изображение {id}.jpg; отсутствующий объект не считается ошибкой
func (s *ImageService) Delete(ctx context.Context, id, actor string) error {
	err := s.store.Delete(ctx, ImageKey(id))
	if errors.Is(err, blob.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("[images] %s deleted %s", actor, ImageKey(id))
	return nil
}
