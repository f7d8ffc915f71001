// Package notify tells the applicant when a record reaches a status worth
// hearing about, by email through SES and by SMS through SNS.
package notify

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	awsclient "job-tracker/internal/common/aws"
	"job-tracker/internal/common/logger"
	"job-tracker/internal/common/metrics"
	"job-tracker/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	FromEmail    string
	ToEmail      string
	SMSEnabled   bool
	PhoneNumber  string
	TopicARN     string
}

const (
	subjectTemplate = "{{company}}: {{status}}"
	bodyTemplate    = "Your application for {{role}} at {{company}} (applied {{date_applied}} via {{platform}}) moved from {{previous}} to {{status}}."
	smsTemplate     = "{{company}} / {{role}}: {{status}}"
)

type Notifier struct {
	config Config
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

// New builds a Notifier. A nil client disables its channel.
func New(cfg Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		config: cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// StatusChanged sends every enabled channel and reports the ones that failed.
func (n *Notifier) StatusChanged(ctx context.Context, job models.Job, previous string) error {
	data := templateData(job, previous)
	var errs []error

	if n.config.EmailEnabled && n.ses != nil {
		err := n.sendEmail(ctx, renderTemplate(subjectTemplate, data), renderTemplate(bodyTemplate, data))
		metrics.NotificationsSent.WithLabelValues("email", metrics.ResultOf(err)).Inc()
		if err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	if n.config.SMSEnabled && n.sns != nil {
		err := n.sendSMS(ctx, renderTemplate(smsTemplate, data))
		metrics.NotificationsSent.WithLabelValues("sms", metrics.ResultOf(err)).Inc()
		if err != nil {
			errs = append(errs, fmt.Errorf("sms: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrNotificationSendFailed, errors.Join(errs...))
	}

	n.logger.Info("status notification sent", map[string]interface{}{
		"jobId":    job.ID,
		"status":   job.Status,
		"previous": previous,
	})
	return nil
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, awsclient.TextEmail(n.config.FromEmail, n.config.ToEmail, subject, body))
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, message string) error {
	_, err := n.sns.Publish(ctx, awsclient.SMS(n.config.PhoneNumber, n.config.TopicARN, message))
	return err
}

func templateData(job models.Job, previous string) map[string]string {
	if previous == "" {
		previous = "new"
	}
	return map[string]string{
		"company":      job.Company,
		"role":         job.Role,
		"platform":     job.Platform,
		"date_applied": job.DateApplied.String(),
		"status":       job.Status,
		"previous":     previous,
	}
}

// renderTemplate substitutes every {{field}} in a single pass, so values are
// never themselves expanded.
func renderTemplate(tmpl string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for _, k := range slices.Sorted(maps.Keys(data)) {
		pairs = append(pairs, "{{"+k+"}}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
