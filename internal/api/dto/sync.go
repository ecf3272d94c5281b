package dto

// ModeRequest sets the sync mode. An empty mode toggles.
type ModeRequest struct {
	Mode string `json:"mode"`
}

type UserRequest struct {
	UserName string `json:"user_name"`
}
