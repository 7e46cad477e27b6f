// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes enrollment events to topics in one region.
type SNSClient struct {
	api    snsAPI
	region string
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := LoadConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("sns client: %w", err)
	}
	return &SNSClient{api: sns.NewFromConfig(cfg), region: region}, nil
}

func (s *SNSClient) Region() string { return s.region }

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	out, err := s.api.Publish(ctx, input, optFns...)
	if err != nil {
		return nil, fmt.Errorf("sns publish (%s): %w", s.region, err)
	}
	return out, nil
}
