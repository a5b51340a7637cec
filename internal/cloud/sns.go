// Package cloud wraps the AWS services the analyst talks to: SNS for alert
// notifications and Lambda for remote tool invocation.
package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"
)

// SNSPublisher is the part of *sns.Client used here.
type SNSPublisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes alert notifications to one topic.
type SNSClient struct {
	svc      SNSPublisher
	topicArn string
	log      zerolog.Logger
}

// NewSNSClient loads the default AWS credential chain for region.
func NewSNSClient(ctx context.Context, region, topicArn string, log zerolog.Logger) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewSNSClientWith(sns.NewFromConfig(cfg), topicArn, log), nil
}

func NewSNSClientWith(svc SNSPublisher, topicArn string, log zerolog.Logger) *SNSClient {
	return &SNSClient{svc: svc, topicArn: topicArn, log: log}
}

// SendAlert publishes one message and returns its SNS message id.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) (string, error) {
	out, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to SNS: %w", err)
	}
	id := aws.ToString(out.MessageId)
	c.log.Debug().Str("message_id", id).Str("subject", subject).Msg("alert published to SNS")
	return id, nil
}
