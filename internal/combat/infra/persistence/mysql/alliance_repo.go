package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/model"
)

// AllianceRepo 联盟与金库。金库只做相对增量，每次增量写一条流水。
type AllianceRepo struct {
	db *gorm.DB
}

func NewAllianceRepo(db *gorm.DB) *AllianceRepo {
	return &AllianceRepo{db: db}
}

const OpGetAlliance = "repo.combat.GetAlliance"

func (r *AllianceRepo) GetAlliance(ctx context.Context, id domain.AllianceID) (domain.Alliance, error) {
	var m model.Alliance
	err := locked(ctx, r.db).Where("id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return allianceToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Alliance{}, domain.ErrAllianceNotFound.WithData("alliance_id", int64(id))
	default:
		return domain.Alliance{}, unavailable(OpGetAlliance, err, "alliance_id", int64(id))
	}
}

const OpGetTaxRates = "repo.combat.GetTaxRates"

func (r *AllianceRepo) GetTaxRates(ctx context.Context, id domain.AllianceID) (domain.AllianceTaxRates, error) {
	var m model.Alliance
	err := conn(ctx, r.db).Select("id", "battle_tax_rate", "tribute_tax_rate").Where("id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return allianceToDomain(m).TaxRates(), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.AllianceTaxRates{}, domain.ErrAllianceNotFound.WithData("alliance_id", int64(id))
	default:
		return domain.AllianceTaxRates{}, unavailable(OpGetTaxRates, err, "alliance_id", int64(id))
	}
}

const OpListAlliances = "repo.combat.ListAlliances"

func (r *AllianceRepo) ListAlliances(ctx context.Context) ([]domain.Alliance, error) {
	var ms []model.Alliance
	if err := conn(ctx, r.db).Order("id").Find(&ms).Error; err != nil {
		return nil, unavailable(OpListAlliances, err)
	}
	out := make([]domain.Alliance, 0, len(ms))
	for _, m := range ms {
		out = append(out, allianceToDomain(m))
	}
	return out, nil
}

const OpCreditTreasury = "repo.combat.CreditTreasury"

// CreditTreasury 金库增量与流水放在同一个保存点里，任一失败都不落库。
func (r *AllianceRepo) CreditTreasury(ctx context.Context, entry domain.TreasuryLog) error {
	if entry.Amount == 0 {
		return nil
	}
	aid := int64(entry.AllianceID)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		res := relativeUpdate(tx.Model(&model.Alliance{}).Where("id = ?", aid),
			[]columnDelta{{"treasury", entry.Amount}}, nil)
		if res.Error != nil {
			return unavailable(OpCreditTreasury, res.Error, "alliance_id", aid)
		}
		if res.RowsAffected == 0 {
			return rejected(ctx, tx, &model.Alliance{}, "id = ?", aid, domain.ErrAllianceNotFound, OpCreditTreasury)
		}
		log := treasuryLogToModel(entry)
		if err := tx.Create(&log).Error; err != nil {
			return unavailable(OpCreditTreasury, err, "alliance_id", aid, "kind", string(entry.Kind))
		}
		return nil
	})
}

const OpMarkCompounded = "repo.combat.MarkCompounded"

func (r *AllianceRepo) MarkCompounded(ctx context.Context, id domain.AllianceID, at time.Time) error {
	err := conn(ctx, r.db).Model(&model.Alliance{}).Where("id = ?", int64(id)).Update("last_compounded_at", timePtr(at)).Error
	if err != nil {
		return unavailable(OpMarkCompounded, err, "alliance_id", int64(id))
	}
	return nil
}
