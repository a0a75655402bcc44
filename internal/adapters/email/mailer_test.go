package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@clubconn.test", "ClubConn", discardLogger())

	require.NoError(t, m.Send("ada@uni.edu", "Hello", "<p>hi</p>", ""))

	require.NotNil(t, client.input)
	assert.Equal(t, "ClubConn <noreply@clubconn.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@uni.edu"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_SendError(t *testing.T) {
	m := newSESMailer(&fakeSES{err: errors.New("throttled")}, "noreply@clubconn.test", "", discardLogger())

	err := m.Send("ada@uni.edu", "Hello", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		config  MailerConfig
		wantSES bool
		wantErr bool
	}{
		{name: "noop", config: MailerConfig{Provider: ProviderNoop}},
		{name: "unknown falls back to noop", config: MailerConfig{Provider: "carrier-pigeon"}},
		{name: "ses", config: MailerConfig{Provider: ProviderSES, FromAddress: "noreply@clubconn.test", SES: SESConfig{Region: "us-east-1"}}, wantSES: true},
		{name: "ses without from address", config: MailerConfig{Provider: ProviderSES}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, discardLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
		})
	}
}
