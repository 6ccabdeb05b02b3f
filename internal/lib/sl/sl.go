// Package sl содержит хелперы для структурированного логирования через slog.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error",
// чтобы все слои приложения логировали ошибки в одном формате.
//
// Пример:
//
//	log.Error("failed to create subject", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
