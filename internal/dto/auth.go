package dto

// LoginRequest is the payload for staff authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the minted token for subsequent API calls.
type LoginResponse struct {
	Token   string `json:"token"`
	StaffID string `json:"staffID"`
	Name    string `json:"name"`
}
