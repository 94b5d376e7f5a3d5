// Пакет events предоставляет обёртку для публикации доменных событий в NATS
package events

// Conn определяет минимальный интерфейс NATS-подключения
// Любая реализация Conn (например *nats.Conn) должна предоставлять метод Publish
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher хранит Conn и тему subject для публикации событий
type NATSPublisher struct {
	conn    Conn
	subject string
}

// NewPublisher создаёт новый NATSPublisher, связывая Conn и subject
func NewPublisher(conn Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish отправляет данные события в заданный subject
// Возвращает ошибку, если публикация не удалась
func (p *NATSPublisher) Publish(data []byte) error {
	return p.conn.Publish(p.subject, data)
}
