// internal/delivery/delivery.go

// Package delivery hands finished emails off: the rendered HTML goes out
// through SES when the request names a recipient, and a completion event is
// published to SNS. Neither channel can fail a generation; failures are
// logged and counted.
package delivery

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"emailbuilder/internal/common/config"
	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/common/metrics"
	"emailbuilder/internal/common/validation"
	"emailbuilder/internal/models"
)

// Mailer is the slice of the SES client the service uses.
type Mailer interface {
	SendHTMLEmail(ctx context.Context, from, to, subject, html string) (*ses.SendEmailOutput, error)
}

// Publisher is the slice of the SNS client the service uses.
type Publisher interface {
	PublishJSON(ctx context.Context, topicARN, subject string, payload interface{}) (*sns.PublishOutput, error)
}

// CompletionEvent is the payload published to the completion topic.
type CompletionEvent struct {
	RequestID      string   `json:"requestId"`
	TemplateType   string   `json:"templateType"`
	Subject        string   `json:"subject"`
	Delivered      bool     `json:"delivered"`
	DeliverTo      string   `json:"deliverTo,omitempty"`
	FallbackStages []string `json:"fallbackStages,omitempty"`
	CompletedAt    string   `json:"completedAt"`
}

type Service struct {
	config config.DeliveryConfig
	mailer Mailer
	events Publisher
	logger logger.Logger
}

func NewService(cfg config.DeliveryConfig, mailer Mailer, events Publisher, log logger.Logger) *Service {
	return &Service{
		config: cfg,
		mailer: mailer,
		events: events,
		logger: log.With(map[string]interface{}{
			"component": "delivery",
		}),
	}
}

// Dispatch sends the rendered email when a recipient was requested and then
// publishes the completion event. The receipts describe what actually went
// out; a failed channel simply has no receipt.
func (s *Service) Dispatch(ctx context.Context, record models.GenerationRecord, deliverTo, html string) []models.DeliveryReceipt {
	receipts := []models.DeliveryReceipt{}

	delivered := false
	if s.sesReady() && deliverTo != "" {
		if !validation.ValidateEmail(deliverTo) {
			metrics.Deliveries.WithLabelValues("ses", "rejected").Inc()
			s.logger.Warn("recipient address failed validation, skipping send", map[string]interface{}{
				"requestId": record.RequestID,
				"to":        deliverTo,
			})
		} else if out, err := s.mailer.SendHTMLEmail(ctx, s.config.AWS.SES.FromEmail, deliverTo, record.Subject, html); err != nil {
			metrics.Deliveries.WithLabelValues("ses", "error").Inc()
			s.logger.Error("email delivery failed", map[string]interface{}{
				"requestId": record.RequestID,
				"to":        deliverTo,
				"error":     err.Error(),
			})
		} else {
			metrics.Deliveries.WithLabelValues("ses", "sent").Inc()
			delivered = true
			receipts = append(receipts, models.DeliveryReceipt{
				Channel:   "ses",
				Target:    deliverTo,
				MessageID: aws.ToString(out.MessageId),
				SentAt:    time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	if s.snsReady() {
		event := CompletionEvent{
			RequestID:      record.RequestID,
			TemplateType:   string(record.TemplateType),
			Subject:        record.Subject,
			Delivered:      delivered,
			DeliverTo:      deliverTo,
			FallbackStages: record.FallbackStages,
			CompletedAt:    time.Now().UTC().Format(time.RFC3339),
		}

		out, err := s.events.PublishJSON(ctx, s.config.AWS.SNS.TopicARN, "email-generation-completed", event)
		if err != nil {
			metrics.Deliveries.WithLabelValues("sns", "error").Inc()
			s.logger.Error("completion event publish failed", map[string]interface{}{
				"requestId": record.RequestID,
				"topic":     s.config.AWS.SNS.TopicARN,
				"error":     err.Error(),
			})
		} else {
			metrics.Deliveries.WithLabelValues("sns", "sent").Inc()
			receipts = append(receipts, models.DeliveryReceipt{
				Channel:   "sns",
				Target:    s.config.AWS.SNS.TopicARN,
				MessageID: aws.ToString(out.MessageId),
				SentAt:    time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	return receipts
}

func (s *Service) sesReady() bool {
	return s.config.AWS.SES.Enabled && s.mailer != nil && s.config.AWS.SES.FromEmail != ""
}

func (s *Service) snsReady() bool {
	return s.config.AWS.SNS.Enabled && s.events != nil && s.config.AWS.SNS.TopicARN != ""
}
