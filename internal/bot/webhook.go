package bot

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"github.com/nextsystem/dropgate/internal/logger"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookServer receives updates pushed by Telegram in webhook mode and
// exposes a health endpoint.
type WebhookServer struct {
	bot    *Bot
	secret string
	srv    *http.Server
}

func NewWebhookServer(b *Bot, listenAddr, secret string) *WebhookServer {
	s := &WebhookServer{bot: b, secret: secret}

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/webhook", s.handleUpdate).Methods(http.MethodPost)

	s.srv = &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}
	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *WebhookServer) Start() error {
	logger.Info("Webhook server listening", "address", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebhookServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *WebhookServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *WebhookServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get(secretTokenHeader) != s.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Warn("Failed to decode webhook update", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Acknowledge immediately; Telegram retries slow responses.
	go s.bot.HandleUpdate(context.Background(), update)
	w.WriteHeader(http.StatusOK)
}
