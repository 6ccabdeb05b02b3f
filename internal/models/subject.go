package models

import "time"

// Subject представляет единицу учебного контента: метаданные
// и ссылку на загруженный PDF в объектном хранилище.
// Предмет неизменяем после создания, возможно только его удаление.
type Subject struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	PdfURL      string    `json:"pdf_url"`
	CreatedAt   time.Time `json:"created_at"`
}
