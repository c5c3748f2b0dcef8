package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/domain"
	"github.com/phone-token-service/internal/infrastructure/awsconf"
	"github.com/phone-token-service/internal/pkg/id"
	"github.com/phone-token-service/internal/pkg/phone"
)

// API is the subset of *sns.Client the publisher calls.
type API interface {
	Publish(ctx context.Context, in *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher announces newly issued tokens on an SNS topic. The phone number
// itself never leaves the service; subscribers get the token and its region.
type Publisher struct {
	client   API
	topicARN string
	now      func() time.Time
}

func NewPublisher(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN is not set")
	}
	awsCfg, err := awsconf.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		o.BaseEndpoint = awsconf.Endpoint(cfg)
	})
	return newPublisher(client, cfg.SNSTopicARN), nil
}

func newPublisher(client API, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN, now: time.Now}
}

func (p *Publisher) TokenIssued(ctx context.Context, token, e164 string) error {
	now := p.now().UTC()
	evt := domain.TokenIssued{
		EventID:  id.NewAt(now),
		Type:     domain.EventTokenIssued,
		Token:    token,
		Region:   phone.Region(e164),
		IssuedAt: now,
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(msg)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(domain.EventTokenIssued)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
