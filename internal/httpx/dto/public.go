package dto

// InquiryRequest es el body del formulario público de contacto.
type InquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// InquiryResponse confirma la recepción de una inquiry.
type InquiryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
