package model

type DashboardRequest struct{}

type DashboardResponse struct {
	TotalGiveaways  int64      `json:"total_giveaways"`
	ActiveGiveaways int64      `json:"active_giveaways"`
	TotalUsers      int64      `json:"total_users"`
	TotalEntries    int64      `json:"total_entries"`
	RecentGiveaways []Giveaway `json:"recent_giveaways"`
}

type GetListGiveawayRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListGiveawayResponse struct {
	Giveaways []Giveaway `json:"giveaways"`
	Total     int64      `json:"total"`
}

type CreateGiveawayRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prize       string `json:"prize"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	MaxEntries  *int64 `json:"max_entries"`
	IsActive    *bool  `json:"is_active"`
	TicketPrice *int64 `json:"ticket_price"`
}

type CreateGiveawayResponse struct {
	ID string `json:"id"`
}

type UpdateGiveawayRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Prize       string `json:"prize"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	MaxEntries  *int64 `json:"max_entries"`
	IsActive    *bool  `json:"is_active"`
	TicketPrice *int64 `json:"ticket_price"`
}

type UpdateGiveawayResponse struct{}

type DeleteGiveawayRequest struct {
	ID string `json:"id"`
}

type DeleteGiveawayResponse struct{}

type SelectWinnerRequest struct {
	ID string `json:"id"`
}

type SelectWinnerResponse struct {
	WinnerID     string `json:"winner_id"`
	WinnerName   string `json:"winner_name"`
	EntryID      string `json:"entry_id"`
	SelectedAt   string `json:"selected_at"`
	TotalEntries int    `json:"total_entries"`
}

type UploadPrizeImageRequest struct{}

type UploadPrizeImageResponse struct {
	URL string `json:"url"`
}

type GetListUserRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListUserResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}

type ToggleAdminRequest struct {
	UserID string `json:"user_id"`
}

type ToggleAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

type GrantCurrencyRequest struct {
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type GrantCurrencyResponse struct {
	Balance int64 `json:"balance"`
}

type AuditLedgerRequest struct {
	UserID string `json:"user_id"`
}

type AuditLedgerResponse struct {
	Balance         int64 `json:"balance"`
	LedgerSum       int64 `json:"ledger_sum"`
	ExpectedBalance int64 `json:"expected_balance"`
	Drift           int64 `json:"drift"`
}
