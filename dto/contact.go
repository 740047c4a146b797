package dto

type CreateContactRequest struct {
	FirstName    string                 `json:"first_name" binding:"required"`
	LastName     string                 `json:"last_name"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone" binding:"required"`
	Tags         []string               `json:"tags"`
	CustomFields map[string]interface{} `json:"custom_fields"`
}
