package models

// User is the staff member returned by POST /auth/login.
type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"nombre"`
	Username string `json:"usuario"`
	Role     string `json:"rol"`
}

type Credentials struct {
	Username string `json:"usuario" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
