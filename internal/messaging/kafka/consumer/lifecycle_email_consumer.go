package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrms/internal/events"
	"go-hrms/internal/leave"
	"go-hrms/internal/mail"
	"go-hrms/internal/offerletter"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLifecycleEmails turns leave and offer-letter lifecycle events into
// transactional email. Delivery is best effort: a failed send is logged and
// the message committed, so one bad address never wedges the group.
func ConsumeLifecycleEmails(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer mail.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.lifecycle_email")
	log.Info("lifecycle email consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("lifecycle email consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		to, subject, body, err := buildEmail(msg)
		if err != nil {
			log.Error("decode lifecycle event failed",
				zap.String("topic", msg.Topic),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if to != "" {
			if err := mailer.Send(to, subject, body); err != nil {
				log.Error("send lifecycle email failed",
					zap.String("topic", msg.Topic),
					zap.String("to", to),
					zap.Error(err),
				)
			} else {
				log.Info("lifecycle email sent",
					zap.String("topic", msg.Topic),
					zap.String("to", to),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

// buildEmail returns an empty recipient for events that do not warrant mail.
func buildEmail(msg kafkago.Message) (to, subject, body string, err error) {
	switch msg.Topic {
	case events.LeaveLifecycleTopic:
		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return "", "", "", err
		}
		return buildLeaveEmail(event)
	case events.LetterLifecycleTopic:
		var event events.LetterStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return "", "", "", err
		}
		return buildLetterEmail(event)
	default:
		return "", "", "", fmt.Errorf("unexpected topic: %s", msg.Topic)
	}
}

func buildLeaveEmail(event events.LeaveStatusChangedEvent) (string, string, string, error) {
	switch event.Status {
	case leave.StatusApproved:
		return event.EmployeeEmail,
			"Your leave request was approved",
			fmt.Sprintf("<p>Your leave from %s to %s has been approved.</p>", event.StartDate, event.EndDate),
			nil
	case leave.StatusRejected:
		return event.EmployeeEmail,
			"Your leave request was rejected",
			fmt.Sprintf("<p>Your leave from %s to %s has been rejected.</p>", event.StartDate, event.EndDate),
			nil
	default:
		// pending/cancelled are in-app notifications only
		return "", "", "", nil
	}
}

func buildLetterEmail(event events.LetterStatusChangedEvent) (string, string, string, error) {
	if event.Status != offerletter.LetterStatusSent {
		return "", "", "", nil
	}
	return event.CandidateEmail,
		fmt.Sprintf("Offer letter %s", event.Reference),
		fmt.Sprintf("<p>Dear %s, your offer letter for the %s position is ready.</p>", event.CandidateName, event.Designation),
		nil
}
