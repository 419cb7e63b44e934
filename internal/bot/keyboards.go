package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nextsystem/dropgate/internal/domain"
)

// Main menu button labels double as text-message routes.
const (
	buttonListOffers  = "List offers"
	buttonJoinQueue   = "Join queue"
	buttonSubmitProof = "Submit proof"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonListOffers)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonJoinQueue)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonSubmitProof)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func offersKeyboard(offers []domain.Offer) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(offers))
	for _, o := range offers {
		label := fmt.Sprintf("%s (daily cap: %d)", o.Name, o.DailyCap)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "offer:"+o.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reviewKeyboard(proofID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", ReviewToken(proofID, "ok")),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", ReviewToken(proofID, "no")),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Need repeat", ReviewToken(proofID, "rep")),
		),
	)
}
