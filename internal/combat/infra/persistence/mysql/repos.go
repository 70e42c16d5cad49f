package mysql

import (
	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/app"
)

// NewRepos 用同一个 *gorm.DB 组装全部存储端口。
func NewRepos(db *gorm.DB) app.Repos {
	return app.Repos{
		Accounts:   NewAccountRepo(db),
		Ledgers:    NewLedgerRepo(db),
		Stats:      NewStatsRepo(db),
		Structures: NewStructureRepo(db),
		Armories:   NewArmoryRepo(db),
		Alliances:  NewAllianceRepo(db),
		Reports:    NewReportRepo(db),
		Outbox:     NewOutboxRepo(db),
		Tx:         NewTransactor(db),
	}
}
