package services

import (
	"encoding/json"

	"expensetracker/internal/logger"
	"expensetracker/internal/models"

	"gorm.io/gorm"
)

// Audit actions recorded by the handlers.
const (
	AuditCreateExpense  = "CREATE_EXPENSE"
	AuditUpdateExpense  = "UPDATE_EXPENSE"
	AuditDeleteExpense  = "DELETE_EXPENSE"
	AuditRegisterClient = "REGISTER_CLIENT"
	AuditLogin          = "LOGIN"
)

// Resource types stored alongside audit actions.
const (
	ResourceExpense = "expense"
	ResourceClient  = "client"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log stores one audit row. Failures are logged and swallowed.
func (s *auditService) Log(clientID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	entry := models.AuditLog{
		ClientID:     clientID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Named("audit").Errorw("audit write failed",
			"error", err,
			"client_id", clientID,
			"action", action,
			"resource", resourceType,
			"resource_id", resourceID,
		)
	}
}

// encodeChanges renders the change set as JSON; nil yields an empty column.
func encodeChanges(action string, changes map[string]interface{}) string {
	if changes == nil {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Named("audit").Warnw("audit changes not encodable", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
