package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lubrimax/lubestock/internal/domain/alert"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// alertMirror 告警状态镜像实现(MySQL)
// 设计说明:
// 1. 实现domain/alert/repository.go的Mirror接口
// 2. 镜像只是尽力而为的后端落库：写入失败向上返回错误，
//    由应用层回滚本地变更（local-first + 补偿）
// 3. Upsert语义：同一告警的多次状态变更覆盖同一行
type alertMirror struct {
	db *gorm.DB
}

// NewAlertMirror 创建告警状态镜像
func NewAlertMirror(db *gorm.DB) alert.Mirror {
	return &alertMirror{db: db}
}

// PersistViewed 落库"已查看"状态
func (m *alertMirror) PersistViewed(ctx context.Context, alertID uint) error {
	return m.upsert(ctx, alertID, string(alert.StatusViewed))
}

// PersistResolved 落库"已处理"状态
func (m *alertMirror) PersistResolved(ctx context.Context, alertID uint) error {
	return m.upsert(ctx, alertID, string(alert.StatusResolved))
}

func (m *alertMirror) upsert(ctx context.Context, alertID uint, status string) error {
	now := time.Now()
	model := &AlertStateModel{
		AlertID: alertID,
		Status:  status,
	}
	assignments := map[string]interface{}{"status": status}

	switch status {
	case string(alert.StatusViewed):
		model.ViewedAt = now
		assignments["viewed_at"] = now
	case string(alert.StatusResolved):
		model.ResolvedAt = now
		assignments["resolved_at"] = now
	}

	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "alert_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(model).Error
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeMirrorRejected, "告警状态同步失败")
	}

	return nil
}
