// Пакет logger публикует события аудита в NATS
package logger

import (
	"encoding/json"
	"fmt"
)

// Conn определяет минимальный интерфейс для работы с NATS-подключением
// Любая реализация Conn (например *nats.Conn) должна предоставлять метод Publish
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSClient хранит Conn и тему subject для публикации событий
type NATSClient struct {
	conn    Conn
	subject string
}

// NewClient создаёт новый NATSClient, связывая Conn и subject
func NewClient(conn Conn, subject string) *NATSClient {
	return &NATSClient{conn: conn, subject: subject}
}

// PublishLog отправляет сырые данные в subject
func (n *NATSClient) PublishLog(data []byte) error {
	return n.conn.Publish(n.subject, data)
}

// PublishEvent сериализует событие в JSON и отправляет его в subject
func (n *NATSClient) PublishEvent(event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return n.PublishLog(data)
}
