package requests

// UpdateTitleRequest renames a conversation.
type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// AppendMessageRequest submits one user turn.
type AppendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
