// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESClient sends enrollment confirmation emails from one region.
type SESClient struct {
	api    sesAPI
	region string
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := LoadConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("ses client: %w", err)
	}
	return &SESClient{api: ses.NewFromConfig(cfg), region: region}, nil
}

func (s *SESClient) Region() string { return s.region }

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	out, err := s.api.SendEmail(ctx, input, optFns...)
	if err != nil {
		return nil, fmt.Errorf("ses send email (%s): %w", s.region, err)
	}
	return out, nil
}
