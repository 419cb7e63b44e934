package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nextsystem/dropgate/internal/domain"
)

var (
	// ErrBadCaption means the evidence caption did not carry both keys.
	ErrBadCaption = errors.New("caption must include queue_id=<number> offer_id=<id>")
	// ErrBadReviewToken means a reviewer callback payload was malformed.
	ErrBadReviewToken = errors.New("malformed review token")
)

// ParseProofCaption extracts queue_id and offer_id from an evidence caption
// like "queue_id=12 offer_id=1". Token order is free and unknown tokens are
// ignored; keys are matched case-insensitively.
func ParseProofCaption(caption string) (int64, string, error) {
	var queueRaw, offerID string
	for _, token := range strings.Fields(caption) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "queue_id="):
			queueRaw = token[len("queue_id="):]
		case strings.HasPrefix(lower, "offer_id="):
			offerID = token[len("offer_id="):]
		}
	}
	if queueRaw == "" || offerID == "" {
		return 0, "", ErrBadCaption
	}

	queueID, err := strconv.ParseInt(queueRaw, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: queue_id %q is not a number", ErrBadCaption, queueRaw)
	}
	return queueID, offerID, nil
}

// Reviewer callback payload: prf:<proofId>:<action>.
const reviewTokenPrefix = "prf:"

var reviewActions = map[string]domain.Decision{
	"ok":  domain.DecisionApproved,
	"no":  domain.DecisionRejected,
	"rep": domain.DecisionRepeatRequired,
}

// ReviewToken renders the callback payload for one review action button.
func ReviewToken(proofID int64, action string) string {
	return fmt.Sprintf("%s%d:%s", reviewTokenPrefix, proofID, action)
}

// ParseReviewToken decodes a reviewer action callback payload.
func ParseReviewToken(data string) (int64, domain.Decision, error) {
	if !strings.HasPrefix(data, reviewTokenPrefix) {
		return 0, "", ErrBadReviewToken
	}
	parts := strings.SplitN(data[len(reviewTokenPrefix):], ":", 2)
	if len(parts) != 2 {
		return 0, "", ErrBadReviewToken
	}

	proofID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: proof id %q", ErrBadReviewToken, parts[0])
	}
	decision, ok := reviewActions[parts[1]]
	if !ok {
		return 0, "", fmt.Errorf("%w: action %q", ErrBadReviewToken, parts[1])
	}
	return proofID, decision, nil
}
