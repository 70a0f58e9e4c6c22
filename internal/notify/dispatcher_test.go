package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayank-anckr/express-kit/internal/mocks"
	"github.com/mayank-anckr/express-kit/internal/model"
	"github.com/mayank-anckr/express-kit/internal/testutil"
)

func TestDispatcher_DeliversEmail(t *testing.T) {
	email := &mocks.EmailSender{}
	push := &mocks.PushSender{}
	delivered := make(chan model.EmailMessage, 1)
	email.On("SendEmail", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(model.EmailMessage)
	}).Return(nil)

	d := NewDispatcher(email, push, testutil.MakeNoopLogger(), 4)
	defer d.Close()

	d.EnqueueEmail(model.EmailMessage{To: "a@b.co", Subject: "hello"})

	select {
	case msg := <-delivered:
		assert.Equal(t, "a@b.co", msg.To)
		assert.Equal(t, "hello", msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}
}

func TestDispatcher_DeliversPush(t *testing.T) {
	email := &mocks.EmailSender{}
	push := &mocks.PushSender{}
	delivered := make(chan model.PushMessage, 1)
	push.On("SendPush", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(model.PushMessage)
	}).Return(nil)

	d := NewDispatcher(email, push, testutil.MakeNoopLogger(), 4)
	defer d.Close()

	d.EnqueuePush(model.PushMessage{Token: "device-token", Title: "hi"})

	select {
	case msg := <-delivered:
		assert.Equal(t, "device-token", msg.Token)
	case <-time.After(2 * time.Second):
		t.Fatal("push was not delivered")
	}
}

// A full queue must drop instead of blocking the caller.
func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	email := &mocks.EmailSender{}
	push := &mocks.PushSender{}
	block := make(chan struct{})
	email.On("SendEmail", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		<-block
	}).Return(nil)

	d := NewDispatcher(email, push, testutil.MakeNoopLogger(), 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.EnqueueEmail(model.EmailMessage{To: "a@b.co"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on full queue")
	}

	close(block)
	d.Close()
}

func TestDispatcher_CloseWaitsForInFlight(t *testing.T) {
	email := &mocks.EmailSender{}
	push := &mocks.PushSender{}
	var sent int
	email.On("SendEmail", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		sent++
	}).Return(nil)

	d := NewDispatcher(email, push, testutil.MakeNoopLogger(), 8)
	for i := 0; i < 3; i++ {
		d.EnqueueEmail(model.EmailMessage{To: "a@b.co"})
	}
	d.Close()

	assert.Equal(t, 3, sent)
}

// Enqueue racing shutdown must drop the message, not send on a closed
// channel.
func TestDispatcher_EnqueueAfterCloseDropsMessage(t *testing.T) {
	email := &mocks.EmailSender{}
	push := &mocks.PushSender{}

	d := NewDispatcher(email, push, testutil.MakeNoopLogger(), 4)
	d.Close()

	assert.NotPanics(t, func() {
		d.EnqueueEmail(model.EmailMessage{To: "a@b.co"})
		d.EnqueuePush(model.PushMessage{Token: "device-token"})
	})
	// Closing again is also safe.
	assert.NotPanics(t, d.Close)

	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	push.AssertNotCalled(t, "SendPush", mock.Anything, mock.Anything)
}

func TestWelcomeEmail(t *testing.T) {
	msg := WelcomeEmail("new@user.co")
	assert.Equal(t, "new@user.co", msg.To)
	assert.NotEmpty(t, msg.Subject)
	assert.NotEmpty(t, msg.Text)
}

func TestResetPasswordEmail(t *testing.T) {
	msg := ResetPasswordEmail("a@b.co", "https://app.example.com/?uuid=abc")
	require.Equal(t, "a@b.co", msg.To)
	assert.True(t, strings.Contains(msg.Text, "https://app.example.com/?uuid=abc"))
	assert.True(t, strings.Contains(msg.HTML, "https://app.example.com/?uuid=abc"))
}
