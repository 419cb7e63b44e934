package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/gate"
	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/notify"
	"github.com/nextsystem/dropgate/internal/service"
)

// Runner coordinates scheduled jobs.
type Runner struct {
	admission  service.AdmissionService
	moderation service.ModerationService
	gate       *gate.Gate
	fanout     *notify.Fanout
}

func NewRunner(
	admission service.AdmissionService,
	moderation service.ModerationService,
	g *gate.Gate,
	fanout *notify.Fanout,
) *Runner {
	return &Runner{
		admission:  admission,
		moderation: moderation,
		gate:       g,
		fanout:     fanout,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (r *Runner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Job panicked", "job", jobName, "panic", rec)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// DailyDigest pushes today's queue activity and the pending review backlog
// to every privileged identity.
func (r *Runner) DailyDigest() {
	r.runWithRecovery("daily_digest", r.dailyDigest)
}

func (r *Runner) dailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	counts, err := r.admission.TodayQueueCounts(ctx)
	if err != nil {
		logger.Error("Digest: failed to read queue counts", "error", err)
		return
	}
	pending, err := r.moderation.PendingProofs(ctx)
	if err != nil {
		logger.Error("Digest: failed to read pending proofs", "error", err)
		return
	}

	text := renderDigest(counts, pending)
	r.fanout.Broadcast(r.gate.Privileged(), func(chatID int64) tgbotapi.Chattable {
		return tgbotapi.NewMessage(chatID, text)
	})
}

func renderDigest(counts map[string]int, pending []domain.ProofSubmission) string {
	var sb strings.Builder
	sb.WriteString("Daily digest\n\nQueue joins today:\n")

	if len(counts) == 0 {
		sb.WriteString("none\n")
	} else {
		offerIDs := make([]string, 0, len(counts))
		for id := range counts {
			offerIDs = append(offerIDs, id)
		}
		sort.Strings(offerIDs)
		for _, id := range offerIDs {
			fmt.Fprintf(&sb, "• offer %s: %d\n", id, counts[id])
		}
	}

	fmt.Fprintf(&sb, "\nProofs awaiting review: %d\n", len(pending))
	for _, p := range pending {
		fmt.Fprintf(&sb, "• proof %d (queue %d, offer %s)\n", p.ProofID, p.QueueID, p.OfferID)
	}
	return sb.String()
}
