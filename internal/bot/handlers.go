package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	name := msg.From.UserName
	if name == "" {
		name = msg.From.FirstName
	}
	if err := b.admission.RegisterParticipant(ctx, msg.From.ID, name); err != nil {
		logger.Error("Registration failed", "participant_id", msg.From.ID, "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, genericFailure))
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		"Welcome!\n"+
			"1) Check the active offers.\n"+
			"2) Join a queue.\n"+
			"3) Send a screenshot for review.\n\n"+
			"Note: a repeat visit may be required before payout.")
	reply.ReplyMarkup = mainMenuKeyboard()
	b.send(reply)
}

func (b *Bot) handleListOffers(ctx context.Context, msg *tgbotapi.Message) {
	offers, err := b.admission.ListActiveOffers(ctx)
	if err != nil {
		logger.Error("Failed to list offers", "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, genericFailure))
		return
	}
	if len(offers) == 0 {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "No active offers right now. Check back later."))
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, "Pick an offer:")
	reply.ReplyMarkup = offersKeyboard(offers)
	b.send(reply)
}

func (b *Bot) handleOfferSelected(ctx context.Context, cb *tgbotapi.CallbackQuery, offerID string) {
	entry, err := b.admission.Join(ctx, cb.From.ID, offerID)
	if err != nil {
		if errors.Is(err, service.ErrOfferInactive) {
			b.answerCallback(cb.ID, "Offer unavailable", true)
			return
		}
		if !errors.Is(err, service.ErrCapacityExceeded) {
			logger.Error("Join failed", "participant_id", cb.From.ID, "offer_id", offerID, "error", err)
		}
		b.send(tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, refusalText(err)))
		b.answerCallback(cb.ID, "", false)
		return
	}

	text := fmt.Sprintf(
		"You are in the queue for this offer (queue_id: %d).\n"+
			"Follow your manager's instructions and send screenshots via /proof.",
		entry.QueueID)
	b.send(tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text))
	b.answerCallback(cb.ID, "", false)
}

func (b *Bot) handleProofPrompt(msg *tgbotapi.Message) {
	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		"Send a photo or screenshot with the caption:\n"+
			"queue_id=<number> offer_id=<id>\n"+
			"For example: queue_id=12 offer_id=1"))
}

func (b *Bot) handleProofUpload(ctx context.Context, msg *tgbotapi.Message) {
	queueID, offerID, err := ParseProofCaption(msg.Caption)
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID,
			"Add a caption to the photo: queue_id=<number> offer_id=<id>"))
		return
	}

	fileID, fileKind := evidenceFile(msg)
	if fileID == "" {
		b.send(tgbotapi.NewMessage(msg.Chat.ID,
			"No image found. Send a photo or an image document."))
		return
	}

	proof, err := b.moderation.Submit(ctx, queueID, msg.From.ID, offerID, fileID, fileKind)
	if err != nil {
		logger.Error("Proof submission failed", "participant_id", msg.From.ID, "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, genericFailure))
		return
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Screenshot received. A reviewer will check it shortly."))

	from := msg.From.UserName
	if from == "" {
		from = fmt.Sprintf("%d", msg.From.ID)
	}
	caption := fmt.Sprintf(
		"New proof\nproof_id: %d | queue_id: %d | offer_id: %s\nfrom: %s",
		proof.ProofID, proof.QueueID, proof.OfferID, from)

	outcomes := b.fanout.Broadcast(b.gate.Privileged(), func(chatID int64) tgbotapi.Chattable {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(proof.EvidenceRef))
		photo.Caption = caption
		photo.ReplyMarkup = reviewKeyboard(proof.ProofID)
		return photo
	})
	for _, o := range outcomes {
		if o.Err != nil {
			logger.Warn("Review card not delivered", "proof_id", proof.ProofID, "recipient", o.Recipient)
		}
	}
}

func evidenceFile(msg *tgbotapi.Message) (string, string) {
	if len(msg.Photo) > 0 {
		// Largest rendition carries the most detail for review.
		return msg.Photo[len(msg.Photo)-1].FileID, "photo"
	}
	if isImageDocument(msg.Document) {
		return msg.Document.FileID, msg.Document.MimeType
	}
	return "", ""
}

func (b *Bot) handlePin(msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Usage: /pin 1234"))
		return
	}
	if b.gate.Elevate(msg.From.ID, code) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Reviewer access granted for this session."))
		return
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID, "Invalid PIN."))
}

func (b *Bot) handleAdminPanel(ctx context.Context, msg *tgbotapi.Message) {
	if !b.gate.IsPrivileged(msg.From.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Not enough privileges."))
		return
	}

	offers, err := b.admission.ListActiveOffers(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, genericFailure))
		return
	}
	counts, err := b.admission.TodayQueueCounts(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, genericFailure))
		return
	}

	var sb strings.Builder
	sb.WriteString("Admin panel\nActive offers:\n")
	if len(offers) == 0 {
		sb.WriteString("none\n")
	}
	for _, o := range offers {
		fmt.Fprintf(&sb, "• %s — cap/day: %d, in queue today: %d (id=%s)\n",
			o.Name, o.DailyCap, counts[o.ID], o.ID)
	}
	sb.WriteString("\nReview proofs from the notification cards.")
	b.send(tgbotapi.NewMessage(msg.Chat.ID, sb.String()))
}

func (b *Bot) handleStoreCheck(ctx context.Context, msg *tgbotapi.Message) {
	if !b.gate.IsPrivileged(msg.From.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Not enough privileges."))
		return
	}

	offers, err := b.admission.ListActiveOffers(ctx)
	if err != nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("❌ Could not reach the spreadsheet: %v", err)))
		return
	}

	names := make([]string, 0, len(offers))
	for _, o := range offers {
		names = append(names, o.Name)
	}
	sort.Strings(names)
	list := strings.Join(names, ", ")
	if list == "" {
		list = "no active offers"
	}
	b.send(tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("✅ Google Sheets access OK\nActive offers: %s", list)))
}

func (b *Bot) handleReviewAction(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if !b.gate.IsPrivileged(cb.From.ID) {
		b.answerCallback(cb.ID, "No access", true)
		return
	}

	proofID, decision, err := ParseReviewToken(cb.Data)
	if err != nil {
		b.answerCallback(cb.ID, "Bad action data", true)
		return
	}

	proof, err := b.moderation.Decide(ctx, proofID, decision, "")
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			b.answerCallback(cb.ID, "Proof not found", true)
			return
		}
		logger.Error("Decision failed", "proof_id", proofID, "error", err)
		b.answerCallback(cb.ID, genericFailure, true)
		return
	}

	caption := fmt.Sprintf("%s\n\nDecision: %s", cb.Message.Caption, decision)
	b.send(tgbotapi.NewEditMessageCaption(cb.Message.Chat.ID, cb.Message.MessageID, caption))
	b.answerCallback(cb.ID, "Done ✅", false)

	b.notifyParticipant(proof)
}

// notifyParticipant pushes the review outcome back to the submitter.
// Best effort: the decision is already committed.
func (b *Bot) notifyParticipant(proof *domain.ProofSubmission) {
	var text string
	switch proof.Decision {
	case domain.DecisionApproved:
		text = fmt.Sprintf("Your proof for queue %d was approved. ✅", proof.QueueID)
	case domain.DecisionRejected:
		text = fmt.Sprintf("Your proof for queue %d was rejected.", proof.QueueID)
	case domain.DecisionRepeatRequired:
		text = fmt.Sprintf(
			"A repeat visit is required for queue %d. Complete it and send a new proof via /proof.",
			proof.QueueID)
	default:
		return
	}
	b.send(tgbotapi.NewMessage(proof.ParticipantID, text))
}
