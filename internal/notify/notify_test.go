package notify

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent    []int64
	failFor map[int64]error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	f.sent = append(f.sent, msg.ChatID)
	if err := f.failFor[msg.ChatID]; err != nil {
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{}, nil
}

func TestBroadcast_FailureDoesNotAbortOthers(t *testing.T) {
	boom := errors.New("blocked by user")
	sender := &fakeSender{failFor: map[int64]error{2: boom}}
	fanout := New(sender)

	outcomes := fanout.Broadcast([]int64{1, 2, 3}, func(chatID int64) tgbotapi.Chattable {
		return tgbotapi.NewMessage(chatID, "review this")
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, []int64{1, 2, 3}, sender.sent)

	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.Equal(t, int64(2), outcomes[1].Recipient)
	assert.NoError(t, outcomes[2].Err)
}

func TestBroadcast_NoRecipients(t *testing.T) {
	fanout := New(&fakeSender{})
	outcomes := fanout.Broadcast(nil, func(chatID int64) tgbotapi.Chattable {
		return tgbotapi.NewMessage(chatID, "unused")
	})
	assert.Empty(t, outcomes)
}
