package dto

// CreateResourceRequest represents a request to create a resource
type CreateResourceRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateResourceRequest represents a partial resource update
type UpdateResourceRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
