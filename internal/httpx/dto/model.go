package dto

// CreateModelRequest da de alta un model (tenant) con su usuario owner.
type CreateModelRequest struct {
	Slug          string `json:"slug"`
	DisplayName   string `json:"display_name"`
	Email         string `json:"email"`
	ThemeSetSlug  string `json:"theme_set_slug,omitempty"`
	OwnerPassword string `json:"owner_password"`
}

// UpdateModelRequest actualiza datos del model. Punteros = campos opcionales.
type UpdateModelRequest struct {
	DisplayName  *string `json:"display_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	ThemeSetSlug *string `json:"theme_set_slug,omitempty"`
}

// SetModelStatusRequest suspende o reactiva un model.
type SetModelStatusRequest struct {
	Status string `json:"status"` // active|suspended
}

// UpsertSettingRequest escribe un setting de sitio.
type UpsertSettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"` // text|json|bool|number|color
}

// BulkSettingsRequest reemplaza settings en bloque (transaccional, If-Match).
type BulkSettingsRequest struct {
	Settings map[string]UpsertSettingRequest `json:"settings"`
}

// CreateUserRequest da de alta un usuario de back office del model.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // owner|admin|editor
}
