package events

import (
	"context"
	"encoding/json"
	"fmt"

	"mergington-activities/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSService is the subset of the SNS client used here.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SESService is the subset of the SES client used here.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSSink publishes the JSON event to a topic.
type SNSSink struct {
	client   SNSService
	topicARN string
}

func NewSNSSink(client SNSService, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("activities." + string(evt.Type)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(string(evt.Type))},
			"activity":  {DataType: aws.String("String"), StringValue: aws.String(evt.Activity)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// EmailSink sends the student a confirmation for each change.
type EmailSink struct {
	client    SESService
	fromEmail string
}

func NewEmailSink(client SESService, fromEmail string) *EmailSink {
	return &EmailSink{client: client, fromEmail: fromEmail}
}

func (s *EmailSink) Name() string { return "ses-email" }

func (s *EmailSink) Publish(ctx context.Context, evt Event) error {
	subject, body := renderConfirmation(evt)
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{evt.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.fromEmail),
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

func renderConfirmation(evt Event) (string, string) {
	switch evt.Type {
	case models.EventUnregistered:
		return fmt.Sprintf("Unregistered from %s", evt.Activity),
			fmt.Sprintf("%s has been unregistered from %s at Mergington High School.", evt.Email, evt.Activity)
	default:
		return fmt.Sprintf("Signed up for %s", evt.Activity),
			fmt.Sprintf("%s is now signed up for %s at Mergington High School.", evt.Email, evt.Activity)
	}
}
