package notification

type NotificationResponse struct {
	ID          string  `json:"id"`
	RecipientID string  `json:"recipient_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	IsRead      bool    `json:"is_read"`
	ReadAt      *string `json:"read_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
