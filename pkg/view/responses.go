package view

import "encoding/json"

// MutationResponse is returned by create, edit and verify endpoints.
type MutationResponse struct {
	Message string          `json:"message"`
	Outcome Outcome         `json:"outcome"`
	Item    json.RawMessage `json:"item,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
}

type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        UserProfile `json:"user"`
}
