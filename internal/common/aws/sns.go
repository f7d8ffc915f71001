// internal/common/aws/sns.go
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(cfg awssdk.Config) *SNSClient {
	return &SNSClient{client: sns.NewFromConfig(cfg)}
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input, optFns...)
}

// SMS builds a PublishInput for a direct SMS, or for a topic when topicARN
// is set.
func SMS(phoneNumber, topicARN, message string) *sns.PublishInput {
	in := &sns.PublishInput{Message: awssdk.String(message)}
	if topicARN != "" {
		in.TopicArn = awssdk.String(topicARN)
	} else {
		in.PhoneNumber = awssdk.String(phoneNumber)
	}
	return in
}
