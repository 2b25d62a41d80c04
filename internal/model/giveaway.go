package model

type GetHomeRequest struct{}

type GetHomeResponse struct {
	ActiveGiveaways    []Giveaway `json:"active_giveaways"`
	PastGiveaways      []Giveaway `json:"past_giveaways"`
	EnteredGiveawayIDs []string   `json:"entered_giveaway_ids"`
}

type GetGiveawayRequest struct {
	ID string `json:"id"`
}

type GetGiveawayResponse struct {
	Giveaway  Giveaway `json:"giveaway"`
	CanEnter  bool     `json:"can_enter"`
	UserEntry *Entry   `json:"user_entry,omitempty"`
}

type EnterGiveawayRequest struct {
	ID string `json:"id"`
}

type EnterGiveawayResponse struct {
	Entry   Entry  `json:"entry"`
	Balance int64  `json:"balance"`
	Message string `json:"message"`
}

type SearchGiveawayRequest struct {
	Q      string `json:"q"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchGiveawayResponse struct {
	Giveaways []Giveaway `json:"giveaways"`
}
