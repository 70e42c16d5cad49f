package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/model"
)

type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const OpGetAccount = "repo.combat.GetAccount"

func (r *AccountRepo) GetAccount(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	var m model.Account
	err := conn(ctx, r.db).Where("id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return accountToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Account{}, domain.ErrAccountNotFound.WithData("account_id", int64(id))
	default:
		return domain.Account{}, unavailable(OpGetAccount, err, "account_id", int64(id))
	}
}

const OpFindAccountByName = "repo.combat.FindAccountByName"

func (r *AccountRepo) FindAccountByName(ctx context.Context, name string) (domain.Account, error) {
	var m model.Account
	err := conn(ctx, r.db).Where("name = ?", name).First(&m).Error

	switch {
	case err == nil:
		return accountToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Account{}, domain.ErrAccountNotFound.WithData("name", name)
	default:
		return domain.Account{}, unavailable(OpFindAccountByName, err, "name", name)
	}
}

const OpListAccountIDs = "repo.combat.ListAccountIDs"

func (r *AccountRepo) ListAccountIDs(ctx context.Context) ([]domain.AccountID, error) {
	var ids []int64
	if err := conn(ctx, r.db).Model(&model.Account{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, unavailable(OpListAccountIDs, err)
	}
	out := make([]domain.AccountID, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.AccountID(id))
	}
	return out, nil
}

type LedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

const OpGetLedger = "repo.combat.GetLedger"

func (r *LedgerRepo) GetLedger(ctx context.Context, id domain.AccountID) (domain.ResourceLedger, error) {
	var m model.Ledger
	err := locked(ctx, r.db).Where("account_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return ledgerToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ResourceLedger{}, domain.ErrLedgerNotFound.WithData("account_id", int64(id))
	default:
		return domain.ResourceLedger{}, unavailable(OpGetLedger, err, "account_id", int64(id))
	}
}

const OpApplyLedgerDelta = "repo.combat.ApplyLedgerDelta"

func (r *LedgerRepo) ApplyLedgerDelta(ctx context.Context, id domain.AccountID, d domain.LedgerDelta) error {
	if d.IsZero() {
		return nil
	}
	cols := []columnDelta{
		{"credits", d.Credits},
		{"banked", d.Banked},
		{"gemstones", d.Gemstones},
		{"citizens", d.Citizens},
		{"workers", d.Workers},
		{"soldiers", d.Soldiers},
		{"guards", d.Guards},
		{"spies", d.Spies},
		{"sentries", d.Sentries},
	}
	res := relativeUpdate(conn(ctx, r.db).Model(&model.Ledger{}).Where("account_id = ?", int64(id)), cols, nil)
	if res.Error != nil {
		return unavailable(OpApplyLedgerDelta, res.Error, "account_id", int64(id))
	}
	if res.RowsAffected == 0 {
		return rejected(ctx, r.db, &model.Ledger{}, "account_id = ?", int64(id), domain.ErrLedgerNotFound, OpApplyLedgerDelta)
	}
	return nil
}

type StatsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

const OpGetStats = "repo.combat.GetStats"

func (r *StatsRepo) GetStats(ctx context.Context, id domain.AccountID) (domain.CombatStats, error) {
	var m model.Stats
	err := locked(ctx, r.db).Where("account_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return statsToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.CombatStats{}, domain.ErrStatsNotFound.WithData("account_id", int64(id))
	default:
		return domain.CombatStats{}, unavailable(OpGetStats, err, "account_id", int64(id))
	}
}

const OpApplyStatsDelta = "repo.combat.ApplyStatsDelta"

// ApplyStatsDelta 经验只增；等级取 max(当前, 目标)。
func (r *StatsRepo) ApplyStatsDelta(ctx context.Context, id domain.AccountID, d domain.StatsDelta) error {
	if d.IsZero() {
		return nil
	}
	if d.Experience < 0 {
		return domain.ErrNegativeBalance.WithData("account_id", int64(id)).WithData("field", "experience")
	}
	cols := []columnDelta{
		{"experience", d.Experience},
		{"net_worth", d.NetWorth},
		{"war_prestige", d.WarPrestige},
		{"attack_turns", d.AttackTurns},
	}
	extra := map[string]any{}
	if d.Level > 0 {
		extra["level"] = gorm.Expr("CASE WHEN level < ? THEN ? ELSE level END", d.Level, d.Level)
	}
	res := relativeUpdate(conn(ctx, r.db).Model(&model.Stats{}).Where("account_id = ?", int64(id)), cols, extra)
	if res.Error != nil {
		return unavailable(OpApplyStatsDelta, res.Error, "account_id", int64(id))
	}
	if res.RowsAffected == 0 {
		return rejected(ctx, r.db, &model.Stats{}, "account_id = ?", int64(id), domain.ErrStatsNotFound, OpApplyStatsDelta)
	}
	return nil
}

type StructureRepo struct {
	db *gorm.DB
}

func NewStructureRepo(db *gorm.DB) *StructureRepo {
	return &StructureRepo{db: db}
}

const OpGetStructures = "repo.combat.GetStructures"

func (r *StructureRepo) GetStructures(ctx context.Context, id domain.AccountID) (domain.StructureLevels, error) {
	var m model.Structures
	err := conn(ctx, r.db).Where("account_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return structuresToDomain(m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.StructureLevels{}, domain.ErrStructuresNotFound.WithData("account_id", int64(id))
	default:
		return domain.StructureLevels{}, unavailable(OpGetStructures, err, "account_id", int64(id))
	}
}

type ArmoryRepo struct {
	db *gorm.DB
}

func NewArmoryRepo(db *gorm.DB) *ArmoryRepo {
	return &ArmoryRepo{db: db}
}

const OpGetArmory = "repo.combat.GetArmory"

// GetArmory 没有任何库存/装备行时返回空军械库。
func (r *ArmoryRepo) GetArmory(ctx context.Context, id domain.AccountID) (domain.Armory, error) {
	var stock []model.ArmoryStock
	if err := conn(ctx, r.db).Where("account_id = ?", int64(id)).Find(&stock).Error; err != nil {
		return domain.Armory{}, unavailable(OpGetArmory, err, "account_id", int64(id))
	}
	var loadout []model.ArmoryLoadout
	if err := conn(ctx, r.db).Where("account_id = ?", int64(id)).Find(&loadout).Error; err != nil {
		return domain.Armory{}, unavailable(OpGetArmory, err, "account_id", int64(id))
	}
	return armoryToDomain(id, stock, loadout), nil
}
