package model

type OAuth2VerifyRequest struct {
	IDToken string `json:"id_token"`
}

type OAuth2VerifyResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

func (r OAuth2VerifyResponse) AccessTokenInfo() string {
	return r.AccessToken
}

func (r OAuth2VerifyResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type LogoutRequest struct{}

type LogoutResponse struct{}

func (r LogoutResponse) AccessTokenInfo() string {
	return ""
}

func (r LogoutResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": ""}
}
