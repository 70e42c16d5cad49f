package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/model"
)

// ReportRepo 战报与谍报只追加，不更新。
type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const OpSaveBattleReport = "repo.combat.SaveBattleReport"

func (r *ReportRepo) SaveBattleReport(ctx context.Context, rep *domain.BattleReport) error {
	if rep == nil {
		return nil
	}
	m := battleReportToModel(rep)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return unavailable(OpSaveBattleReport, err, "report_id", rep.ID)
	}
	return nil
}

const OpSaveSpyReport = "repo.combat.SaveSpyReport"

func (r *ReportRepo) SaveSpyReport(ctx context.Context, rep *domain.SpyReport) error {
	if rep == nil {
		return nil
	}
	m := spyReportToModel(rep)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return unavailable(OpSaveSpyReport, err, "report_id", rep.ID)
	}
	return nil
}

const OpGetBattleReport = "repo.combat.GetBattleReport"

// GetBattleReport 复盘用。
func (r *ReportRepo) GetBattleReport(ctx context.Context, id int64) (domain.BattleReport, error) {
	var m model.BattleReport
	err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error

	switch {
	case err == nil:
		return battleReportToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.BattleReport{}, domain.ErrReportNotFound.WithData("report_id", id)
	default:
		return domain.BattleReport{}, unavailable(OpGetBattleReport, err, "report_id", id)
	}
}

const OpGetSpyReport = "repo.combat.GetSpyReport"

func (r *ReportRepo) GetSpyReport(ctx context.Context, id int64) (domain.SpyReport, error) {
	var m model.SpyReport
	err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error

	switch {
	case err == nil:
		return spyReportToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.SpyReport{}, domain.ErrReportNotFound.WithData("report_id", id)
	default:
		return domain.SpyReport{}, unavailable(OpGetSpyReport, err, "report_id", id)
	}
}

// OutboxRepo combat_outbox 表。
type OutboxRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutboxRepo(db *gorm.DB) *OutboxRepo {
	return &OutboxRepo{db: db, now: time.Now}
}

const OpAppendOutbox = "repo.combat.AppendOutbox"

func (r *OutboxRepo) Append(ctx context.Context, ev domain.Event) error {
	m := eventToModel(ev)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return unavailable(OpAppendOutbox, err, "event_id", ev.ID, "kind", string(ev.Kind))
	}
	return nil
}

const OpPendingOutbox = "repo.combat.PendingOutbox"

func (r *OutboxRepo) Pending(ctx context.Context, limit int) ([]domain.Event, error) {
	var ms []model.OutboxEvent
	q := conn(ctx, r.db).Where("published_at IS NULL").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, unavailable(OpPendingOutbox, err)
	}
	out := make([]domain.Event, 0, len(ms))
	for _, m := range ms {
		out = append(out, eventToDomain(m))
	}
	return out, nil
}

const OpMarkPublished = "repo.combat.MarkPublished"

func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := conn(ctx, r.db).Model(&model.OutboxEvent{}).
		Where("id IN ? AND published_at IS NULL", ids).
		Update("published_at", timePtr(r.now())).Error
	if err != nil {
		return unavailable(OpMarkPublished, err, "count", len(ids))
	}
	return nil
}
