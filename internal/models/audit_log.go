package models

// AuditLog records sensitive client operations.
type AuditLog struct {
	Base
	ClientID     uint   `gorm:"not null;index" json:"client_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
