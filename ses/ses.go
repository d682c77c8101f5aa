// SPDX-License-Identifier: GPL-3.0-or-later
package ses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CrawX/go-report-triage/domain"
	"github.com/CrawX/go-report-triage/log"
	"github.com/CrawX/go-report-triage/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

var ErrNoSender = errors.New("sender address must not be empty")

// SendEmailAPI is the part of the SES v2 client the sender needs.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Config struct {
	Region          string
	AccessKeyId     string
	SecretAccessKey string
	From            string
}

// Sender delivers replies through AWS SES for mail stores that cannot send themselves.
type Sender struct {
	from      string
	client    SendEmailAPI
	baseDelay time.Duration
	now       func() time.Time
	l         *logrus.Logger
}

func NewSender(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if len(cfg.AccessKeyId) > 0 && len(cfg.SecretAccessKey) > 0 {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyId, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	return NewSenderWithClient(cfg.From, sesv2.NewFromConfig(awsCfg))
}

func NewSenderWithClient(from string, client SendEmailAPI) (*Sender, error) {
	if len(from) == 0 {
		return nil, ErrNoSender
	}

	return &Sender{
		from:      from,
		client:    client,
		baseDelay: time.Second,
		now:       time.Now,
		l:         log.Logger(log.LOG_SES),
	}, nil
}

func (s *Sender) Send(ctx context.Context, reply domain.Reply) (string, error) {
	raw, err := mail.BuildReply(s.from, reply, s.now())
	if err != nil {
		return "", fmt.Errorf("could not build reply: %w", err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{reply.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{
				Data: raw,
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.backoffDelay(attempt)
			s.l.WithFields(logrus.Fields{"attempt": attempt, "delay": delay}).Debug("Retrying SES request")

			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled during retry wait: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		out, err := s.client.SendEmail(ctx, input)
		if err == nil {
			messageId := aws.ToString(out.MessageId)
			s.l.WithFields(logrus.Fields{"to": reply.To, "id": messageId}).Debug("Sent reply")
			return messageId, nil
		}

		lastErr = err
		s.l.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("SES request failed")
	}

	return "", fmt.Errorf("could not send reply after %d retries: %w", maxRetries, lastErr)
}

func (s *Sender) backoffDelay(attempt int) time.Duration {
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
