package handler

import "time"

// --- Requests ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50" example:"John Doe"`
	Email    string `json:"email"    validate:"required,email"        example:"john@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72" example:"secret123"`
	Age      int    `json:"age"      validate:"required,gte=18,lte=100" example:"25"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"john@example.com"`
	Password string `json:"password" validate:"required"       example:"secret123"`
}

type patchUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=20"`
	Age      *int    `json:"age,omitempty"      validate:"omitempty,gte=18,lte=100"`
}

type adminCreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Age      int    `json:"age"      validate:"required,gte=18,lte=100"`
	Role     string `json:"role,omitempty" example:"USER"`
}

type adminUpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=20"`
	Age      *int    `json:"age,omitempty"      validate:"omitempty,gte=18,lte=100"`
}

// --- Responses ---

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
}

type messageResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type adminActionResponse struct {
	Message      string        `json:"message"`
	User         *userResponse `json:"user,omitempty"`
	WalletSynced bool          `json:"walletSynced"`
	Warning      string        `json:"warning,omitempty"`
}

type userPageResponse struct {
	Items      []userResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalPages int            `json:"totalPages"`
}

type walletResponse struct {
	WalletID       int64   `json:"walletId"`
	UserID         int64   `json:"userId"`
	CurrentBalance float64 `json:"currentBalance"`
}

type cascadeFailureResponse struct {
	UserID     int64     `json:"userId"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

type livenessResponse struct {
	Status string `json:"status"`
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
