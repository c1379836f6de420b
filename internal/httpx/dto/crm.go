package dto

// CreateContactRequest crea un contacto del CRM.
type CreateContactRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// UpdateContactRequest actualiza un contacto.
type UpdateContactRequest struct {
	Name  *string   `json:"name,omitempty"`
	Phone *string   `json:"phone,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
	Notes *string   `json:"notes,omitempty"`
}

// SetInquiryStatusRequest cambia el estado de una inquiry.
type SetInquiryStatusRequest struct {
	Status string `json:"status"` // new|read|replied|archived
}

// SuggestReplyResponse es la sugerencia del asistente para una inquiry.
type SuggestReplyResponse struct {
	InquiryID string `json:"inquiry_id"`
	Reply     string `json:"reply"`
}
