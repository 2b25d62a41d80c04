package model

type GetMeRequest struct{}

type GetMeResponse struct {
	User          User       `json:"user"`
	Entries       []Entry    `json:"entries"`
	WonGiveaways  []Giveaway `json:"won_giveaways"`
	TotalEntries  int        `json:"total_entries"`
	TotalWins     int        `json:"total_wins"`
	TotalSpending int64      `json:"total_spending"`
}

type GetMyTransactionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
