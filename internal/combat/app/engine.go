package app

import (
	"context"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

// CombatActions 对外暴露的三个操作。Web 处理器、NPC 控制器与调度器只依赖这个接口。
type CombatActions interface {
	ConductAttack(ctx context.Context, attackerID domain.AccountID, target string, mode domain.AttackMode) (*AttackResult, error)
	ConductSpyOperation(ctx context.Context, attackerID domain.AccountID, target string) (*SpyResult, error)
	ProcessAllAccounts(ctx context.Context) (TickResult, error)
}

// Engine 组合三个结算服务。
type Engine struct {
	*AttackService
	*SpyService
	*TurnService
}

var _ CombatActions = (*Engine)(nil)

func NewEngine(d Deps) *Engine {
	return &Engine{
		AttackService: NewAttackService(d),
		SpyService:    NewSpyService(d),
		TurnService:   NewTurnService(d),
	}
}
