package dto

type RefreshInput struct {
	Refresh string `json:"refresh"`
}

type LogoutInput struct {
	Refresh string `json:"refresh"`
}
