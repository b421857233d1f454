// Package mailer sends transactional email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/logger"
)

// Message is one rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sesAPI is the part of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// New builds the mailer for cfg.Provider. With no static keys the SES
// client falls back to the default AWS credential chain.
func New(ctx context.Context, cfg config.MailConfig, logg *logger.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "ses":
		if cfg.FromAddress == "" {
			return nil, errors.New("mail.from_address is required for ses")
		}
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SES.Region)}
		if cfg.SES.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		return newSESMailer(ses.NewFromConfig(awsCfg), cfg, logg), nil
	case "", "noop":
		return &noopMailer{logg: logg}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

type sesMailer struct {
	client      sesAPI
	fromAddress string
	fromName    string
	timeout     time.Duration
	logg        *logger.Logger
}

func newSESMailer(client sesAPI, cfg config.MailConfig, logg *logger.Logger) *sesMailer {
	if logg == nil {
		logg = logger.Nop()
	}
	return &sesMailer{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		timeout:     cfg.Timeout,
		logg:        logg,
	}
}

func (s *sesMailer) source() string {
	if s.fromName == "" {
		return s.fromAddress
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
}

func (s *sesMailer) Send(ctx context.Context, msg Message) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(s.source()),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: utf8(msg.Subject),
			Body:    &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = utf8(msg.HTML)
	}
	if msg.Text != "" {
		input.Message.Body.Text = utf8(msg.Text)
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("sending email via ses: %w", err)
	}
	s.logg.Info(s.logg.WithField(ctx, "message_id", aws.ToString(out.MessageId)), "mail.sent")
	return nil
}

func utf8(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

type noopMailer struct {
	logg *logger.Logger
}

func (n *noopMailer) Send(ctx context.Context, msg Message) error {
	if n.logg != nil {
		n.logg.Info(n.logg.WithFields(ctx, map[string]any{"to": msg.To, "subject": msg.Subject}), "mail.noop")
	}
	return nil
}
