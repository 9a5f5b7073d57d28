package types

type RegistrationInfo struct {
	Entities      []EntityInfo `json:"entities,omitempty"`
	PropertyNames []string     `json:"propertyNames,omitempty"`
}

type ContextSourceRegistration struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Information []RegistrationInfo `json:"information"`
	Endpoint    string             `json:"endpoint,omitempty"`
	Mode        string             `json:"mode,omitempty"`
	ExpiresAt   string             `json:"expiresAt,omitempty"`
	Status      string             `json:"status,omitempty"`
}
