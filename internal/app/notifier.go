package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-hrms/internal/events"
	"go-hrms/internal/mail"
	"go-hrms/internal/messaging/kafka/consumer"
	"go-hrms/internal/shared/connection"

	"go.uber.org/zap"
)

// RunNotifier consumes leave and offer-letter lifecycle events and delivers
// them as email.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("SMTP_PORT must be a number: %w", err)
	}

	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	})

	reader := connection.NewKafkaReader(
		kafkaBroker,
		"go-hrms-lifecycle-email",
		[]string{events.LeaveLifecycleTopic, events.LetterLifecycleTopic},
	)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLifecycleEmails(ctx, reader, mailer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
