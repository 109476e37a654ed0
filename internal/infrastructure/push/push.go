package push

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/townhub-api/internal/config"
)

// Notifier delivers push notifications via AWS SNS.
type Notifier interface {
	// Broadcast publishes to the town-wide topic (all subscribers).
	Broadcast(ctx context.Context, heading, body string) error
	// BroadcastSegment publishes to the topic with a tag message attribute;
	// subscription filter policies route it to the matching segment.
	BroadcastSegment(ctx context.Context, tag, heading, body string) error
	// SendDirect publishes to a single device's platform endpoint.
	SendDirect(ctx context.Context, endpointARN, heading, body string) error
	// RegisterEndpoint creates (or re-uses) a platform endpoint for a raw
	// device push token and returns its ARN.
	RegisterEndpoint(ctx context.Context, token string) (string, error)
}

type notifier struct {
	client         *sns.Client
	topicARN       string
	platformAppARN string
}

// NewNotifier builds an SNS-backed Notifier. When cfg.AWSEndpointURL is set
// (LocalStack), the endpoint is overridden like the other AWS clients.
func NewNotifier(cfg *config.Config) (Notifier, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &notifier{
		client:         sns.NewFromConfig(awsCfg, clientOpts...),
		topicARN:       cfg.SNSTopicARN,
		platformAppARN: cfg.SNSPlatformAppARN,
	}, nil
}

func (n *notifier) Broadcast(ctx context.Context, heading, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(heading),
		Message:  aws.String(body),
	})
	return err
}

func (n *notifier) BroadcastSegment(ctx context.Context, tag, heading, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(heading),
		Message:  aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"tag": {
				DataType:    aws.String("String"),
				StringValue: aws.String(tag),
			},
		},
	})
	return err
}

func (n *notifier) SendDirect(ctx context.Context, endpointARN, heading, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TargetArn: aws.String(endpointARN),
		Subject:   aws.String(heading),
		Message:   aws.String(body),
	})
	return err
}

func (n *notifier) RegisterEndpoint(ctx context.Context, token string) (string, error) {
	out, err := n.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(n.platformAppARN),
		Token:                  aws.String(token),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.EndpointArn), nil
}
