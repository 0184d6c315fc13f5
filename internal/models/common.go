package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// OKResponse acknowledges a mutation. Updated is set for bulk updates.
type OKResponse struct {
	OK      bool   `json:"ok"`
	Updated *int64 `json:"updated,omitempty"`
}

// AllModels lists every entity managed by auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&FriendRequest{},
		&Friendship{},
		&Notification{},
		&Message{},
	}
}
