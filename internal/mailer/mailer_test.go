package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supacoach/coach-api/internal/config"
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

func TestSESMailerBuildsInput(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, config.MailConfig{FromAddress: "no-reply@supacoach.app", FromName: "SupaCoach", Timeout: time.Second}, nil)

	err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hello", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "SupaCoach <no-reply@supacoach.app>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"a@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "UTF-8", aws.ToString(client.input.Message.Body.Html.Charset))
	assert.Equal(t, "hi", aws.ToString(client.input.Message.Body.Text.Data))
}

func TestSESMailerOmitsEmptyBodies(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, config.MailConfig{FromAddress: "x@example.com"}, nil)

	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "s", Text: "only text"}))
	assert.Equal(t, "x@example.com", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailerWrapsErrors(t *testing.T) {
	cause := errors.New("throttled")
	m := newSESMailer(&fakeSES{err: cause}, config.MailConfig{FromAddress: "x@example.com"}, nil)

	err := m.Send(context.Background(), Message{To: "a@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestNewSelectsProvider(t *testing.T) {
	m, err := New(context.Background(), config.MailConfig{Provider: "noop"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@example.com"}))

	_, err = New(context.Background(), config.MailConfig{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.MailConfig{Provider: "ses"}, nil)
	assert.Error(t, err, "ses needs a from address")
}

type recordingMailer struct {
	sent []Message
}

func (r *recordingMailer) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestInvitationSenderRendersTemplates(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)
	rec := &recordingMailer{}
	sender := NewInvitationSender(rec, renderer)

	err = sender.SendInvitation(context.Background(), Invitation{
		To:         "jane@example.com",
		ClientName: "Jane <Doe>",
		CoachName:  "Coach Carter",
		AcceptURL:  "https://app.supacoach.test/accept-invitation/abc123",
		ExpiresAt:  time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)

	msg := rec.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Invitation to join SupaCoach", msg.Subject)
	assert.Contains(t, msg.Text, "https://app.supacoach.test/accept-invitation/abc123")
	assert.Contains(t, msg.Text, "Coach Carter has invited you")
	assert.Contains(t, msg.Text, "January 8, 2025")
	assert.Contains(t, msg.HTML, `href="https://app.supacoach.test/accept-invitation/abc123"`)
	assert.Contains(t, msg.HTML, "Jane &lt;Doe&gt;")
	assert.False(t, strings.Contains(msg.HTML, "<Doe>"))
}

func TestRendererUnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)
	_, err = renderer.Render("missing", "a@example.com", nil)
	assert.Error(t, err)
}
