package handler

// RegisterRequest is the POST /register payload: identity fields plus the raw
// feature map. Feature values arrive untyped; normalization decides numeric
// versus categorical per value.
type RegisterRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	UserData map[string]any `json:"userData"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	FraudBool int    `json:"fraud_bool"`
}
