// Package smtp реализует SMTP-транспорт с STARTTLS для отправки
// почтовых уведомлений студентам.
package smtp

import "io"

// Client описывает минимальный контракт SMTP-клиента,
// необходимый для отправки одного письма. Выделен в интерфейс
// ради подмены в тестах отправителя.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
