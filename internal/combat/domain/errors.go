package domain

import (
	"errors"

	"github.com/mungus451/starlight-v2-sub001/modules/kit/errx"
)

// Code 领域错误码。
//
// 约定：
// - 领域层只关心“是什么错”（code）以及“业务上下文”（data）
// - cause 仅用于溯源/日志，不参与对外语义
type Code = errx.Code

const (
	CodeAccountNotFound    Code = "COMBAT_ACCOUNT_NOT_FOUND"
	CodeLedgerNotFound     Code = "COMBAT_LEDGER_NOT_FOUND"
	CodeStatsNotFound      Code = "COMBAT_STATS_NOT_FOUND"
	CodeStructuresNotFound Code = "COMBAT_STRUCTURES_NOT_FOUND"
	CodeAllianceNotFound   Code = "COMBAT_ALLIANCE_NOT_FOUND"
	CodeReportNotFound     Code = "COMBAT_REPORT_NOT_FOUND"
	CodeNegativeBalance    Code = "COMBAT_NEGATIVE_BALANCE"
	// CodeSystemUnavailable 复用 kit 的统一系统码。
	CodeSystemUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrAccountNotFound    = errx.NewBiz(CodeAccountNotFound, "")
	ErrLedgerNotFound     = errx.NewBiz(CodeLedgerNotFound, "")
	ErrStatsNotFound      = errx.NewBiz(CodeStatsNotFound, "")
	ErrStructuresNotFound = errx.NewBiz(CodeStructuresNotFound, "")
	ErrAllianceNotFound   = errx.NewBiz(CodeAllianceNotFound, "")
	ErrReportNotFound     = errx.NewBiz(CodeReportNotFound, "")
	// ErrNegativeBalance 相对更新会把某列扣成负数，持久化层拒绝写入。
	ErrNegativeBalance   = errx.NewSys(CodeNegativeBalance, "余额不足以扣减")
	ErrSystemUnavailable = errx.ErrUnavailable
)

// IsMissingAggregate 判断是否是“账号存在但聚合缺失”类错误。
func IsMissingAggregate(err error) bool {
	return errors.Is(err, ErrLedgerNotFound) || errors.Is(err, ErrStatsNotFound) || errors.Is(err, ErrStructuresNotFound)
}
