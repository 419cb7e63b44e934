package domain

// Offer is a rate-limited task definition with a daily admission cap.
// Offers are managed out-of-band in the spreadsheet and are read-only here.
type Offer struct {
	ID       string `json:"offer_id"`
	Name     string `json:"name"`
	DailyCap int    `json:"cap_daily"`
	Active   bool   `json:"is_active"`
}
