package dto

// LoginRequest represents login credentials. Username is an employee ID or a primary email.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"jdoe1"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	EmployeeID string `json:"employee_id" example:"jdoe1"`
	FirstName  string `json:"first_name" example:"John"`
	Token      string `json:"token"`
	TokenType  string `json:"token_type" example:"Bearer"`
	Iat        int64  `json:"iat" example:"1709553665"`
	Exp        int64  `json:"exp" example:"1709555465"`
}

// MeResponse names the token holder
type MeResponse struct {
	User string `json:"user" example:"John Doe"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	EmployeeID string `json:"employee_id" binding:"required" example:"jdoe1"`
}

// ResetPasswordRequest completes a password reset with the emailed code
type ResetPasswordRequest struct {
	ResetCode   string `json:"reset_code" binding:"required" example:"A1B2C3D4"`
	NewPassword string `json:"new_password" binding:"required,min=8" example:"newpassword"`
}

// ChangePasswordRequest changes a password given the current one
type ChangePasswordRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required" example:"jdoe1"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
