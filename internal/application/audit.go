package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

// Auditor writes audit rows. Failures are logged and never surface to callers.
type Auditor struct {
	Repo   repo.AuditRepository
	Logger *logrus.Logger
}

func NewAuditor(r repo.AuditRepository, logger *logrus.Logger) *Auditor {
	return &Auditor{Repo: r, Logger: logger}
}

func (a *Auditor) Record(ctx context.Context, userID, email, action string, meta RequestMeta, metadata map[string]any) {
	if a == nil || a.Repo == nil {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	err := a.Repo.Insert(c, entity.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  metadata,
	})
	if err != nil {
		helpers.LogWarn(a.Logger, "audit insert failed", err, logrus.Fields{"action": action, "user_id": userID})
	}
}
