// Package bot is the messaging shell around the admission and moderation
// core: command routing, keyboards, caption parsing and reviewer callback
// handling over the Telegram Bot API.
package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/nextsystem/dropgate/internal/gate"
	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/notify"
	"github.com/nextsystem/dropgate/internal/repository"
	"github.com/nextsystem/dropgate/internal/service"
)

const genericFailure = "Something went wrong, please try again later."

type Bot struct {
	api        *tgbotapi.BotAPI
	admission  service.AdmissionService
	moderation service.ModerationService
	gate       *gate.Gate
	fanout     *notify.Fanout
}

func New(
	api *tgbotapi.BotAPI,
	admission service.AdmissionService,
	moderation service.ModerationService,
	g *gate.Gate,
	fanout *notify.Fanout,
) *Bot {
	return &Bot{
		api:        api,
		admission:  admission,
		moderation: moderation,
		gate:       g,
		fanout:     fanout,
	}
}

// RunPolling consumes updates over long polling until ctx is cancelled.
// Updates are handled concurrently; the services own the serialization
// points that matter.
func (b *Bot) RunPolling(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	logger.Info("Polling for updates", "bot", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate routes one inbound update to its handler.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := logger.WithUpdate(uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.Error("Update handler panicked", "panic", r)
		}
	}()

	log.Debug("Handling update")

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "offers":
			b.handleListOffers(ctx, msg)
		case "proof":
			b.handleProofPrompt(msg)
		case "pin":
			b.handlePin(msg)
		case "admin":
			b.handleAdminPanel(ctx, msg)
		case "gscheck":
			b.handleStoreCheck(ctx, msg)
		}
		return
	}

	if len(msg.Photo) > 0 || isImageDocument(msg.Document) {
		b.handleProofUpload(ctx, msg)
		return
	}

	switch msg.Text {
	case buttonListOffers, buttonJoinQueue:
		b.handleListOffers(ctx, msg)
	case buttonSubmitProof:
		b.handleProofPrompt(msg)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}

	switch {
	case strings.HasPrefix(cb.Data, "offer:"):
		b.handleOfferSelected(ctx, cb, strings.TrimPrefix(cb.Data, "offer:"))
	case strings.HasPrefix(cb.Data, reviewTokenPrefix):
		b.handleReviewAction(ctx, cb)
	}
}

func isImageDocument(doc *tgbotapi.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "image")
}

// refusalText maps domain errors to participant-facing refusals. Store
// failures collapse into a generic message.
func refusalText(err error) string {
	switch {
	case errors.Is(err, service.ErrOfferInactive):
		return "This offer is not available."
	case errors.Is(err, service.ErrCapacityExceeded):
		return "Today's limit for this offer is exhausted. Try again tomorrow."
	case errors.Is(err, service.ErrNotFound):
		return "Nothing found by that identifier."
	case errors.Is(err, repository.ErrStoreRateLimited),
		errors.Is(err, repository.ErrStoreUnavailable):
		return genericFailure
	}
	return genericFailure
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Warn("Failed to send message", "error", err)
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cb := tgbotapi.NewCallback(id, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cb); err != nil {
		logger.Warn("Failed to answer callback", "error", err)
	}
}
