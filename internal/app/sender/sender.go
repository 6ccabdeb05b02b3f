// Package sender собирает приложение почтовых уведомлений:
// подключение к RabbitMQ, SMTP-транспорт и сервис отправки писем.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-notes-market/internal/config"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/smtp"
	"github.com/magabrotheeeer/study-notes-market/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/study-notes-market/internal/services/sender"
)

// App содержит зависимости приложения отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New инициализирует подключение к брокеру и сервис отправки писем.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.New(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди решений по платежам
// и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.PaymentQueue, a.senderService.SendPaymentDecision)
	if err != nil {
		a.logger.Error("failed to start payment decisions consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
