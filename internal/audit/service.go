package audit

import (
	"encoding/json"
	"fmt"

	"bakery-backend/internal/auth"
	"bakery-backend/internal/database"
	"bakery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init installs the logger used when audit writes fail. Audit failures never
// fail the mutation they describe.
func Init(l *zap.Logger) {
	if l != nil {
		log = l.Named("audit")
	}
}

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns need the literal "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}

// Record is WriteLog plus failure logging, for use from handlers.
func Record(opts LogOptions) {
	if err := WriteLog(opts); err != nil {
		log.Warn("audit write failed",
			zap.String("entity_type", opts.EntityType),
			zap.Uint("entity_id", opts.EntityID),
			zap.Error(err),
		)
	}
}

// ActorFromCtx resolves the authenticated user for audit attribution.
func ActorFromCtx(c *fiber.Ctx) (uint, string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, ""
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return userID, ""
	}
	return user.ID, user.Name
}
