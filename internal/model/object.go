package model

type User struct {
	ID              string `json:"id"`
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	IsAdmin         bool   `json:"is_admin"`
	CurrencyBalance int64  `json:"currency_balance"`
	CreatedAt       string `json:"created_at"`
}

type Giveaway struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Prize            string `json:"prize"`
	ImageURL         string `json:"image_url,omitempty"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	MaxEntries       *int64 `json:"max_entries,omitempty"`
	IsActive         bool   `json:"is_active"`
	TicketPrice      int64  `json:"ticket_price"`
	WinnerID         string `json:"winner_id,omitempty"`
	Winner           *User  `json:"winner,omitempty"`
	WinnerSelectedAt string `json:"winner_selected_at,omitempty"`
	EntryCount       int64  `json:"entry_count"`
	CreatedAt        string `json:"created_at"`
}

type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	GiveawayID string    `json:"giveaway_id"`
	Giveaway   *Giveaway `json:"giveaway,omitempty"`
	EnteredAt  string    `json:"entered_at"`
	CostPaid   int64     `json:"cost_paid"`
}

type Transaction struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	Amount          int64  `json:"amount"`
	TransactionType string `json:"transaction_type"`
	Description     string `json:"description,omitempty"`
	GiveawayID      string `json:"giveaway_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type AccessToken struct {
	ID string `json:"id"`
}
