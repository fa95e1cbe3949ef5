package dto

import "time"

// APIResponse is the envelope of every successful response
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2024-03-04T12:01:05.123Z"`
}

// NewAPIResponse creates a successful API response
func NewAPIResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"current_page" example:"1"`
	TotalPages  int   `json:"total_pages" example:"3"`
	PageSize    int   `json:"page_size" example:"10"`
	TotalItems  int64 `json:"total_items" example:"25"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// CountResponse carries a row count
type CountResponse struct {
	Count int64 `json:"count" example:"42"`
}

// StatusResponse reports whether the server can reach its database
type StatusResponse struct {
	Status string `json:"status" example:"online" enums:"online,offline"`
}

// RouteInfo describes one registered route
type RouteInfo struct {
	Method string `json:"method" example:"GET"`
	Path   string `json:"path" example:"/api/v1/status"`
}

// EmailTestResponse reports the result of a test email
type EmailTestResponse struct {
	Recipient string `json:"recipient" example:"noreply@pca.org"`
	Sent      bool   `json:"sent" example:"true"`
}
