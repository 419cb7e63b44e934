// Package notify implements best-effort fanout of review traffic to
// privileged identities. Delivery is observability-only: a failed send
// never rolls back or blocks the state mutation that triggered it.
package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nextsystem/dropgate/internal/logger"
)

// Sender is the slice of the Bot API the fanout needs. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Outcome is the per-recipient delivery result.
type Outcome struct {
	Recipient int64
	Err       error
}

type Fanout struct {
	sender Sender
}

func New(sender Sender) *Fanout {
	return &Fanout{sender: sender}
}

// Broadcast sends build(chatID) to every recipient. A failure for one
// recipient does not abort the rest; every outcome is returned and failures
// are logged.
func (f *Fanout) Broadcast(recipients []int64, build func(chatID int64) tgbotapi.Chattable) []Outcome {
	outcomes := make([]Outcome, 0, len(recipients))
	for _, id := range recipients {
		_, err := f.sender.Send(build(id))
		if err != nil {
			logger.Warn("Notification delivery failed", "recipient", id, "error", err)
		}
		outcomes = append(outcomes, Outcome{Recipient: id, Err: err})
	}
	return outcomes
}
