package app

import (
	"errors"

	"github.com/mungus451/starlight-v2-sub001/modules/kit/errx"
)

// Code 应用层错误码，调用方（接口层、NPC 控制器）按 code 区分处理。
type Code = errx.Code

const (
	CodeAttackerNotFound  Code = "COMBAT_ATTACKER_NOT_FOUND"
	CodeTargetNotFound    Code = "COMBAT_TARGET_NOT_FOUND"
	CodeSelfTarget        Code = "COMBAT_SELF_TARGET"
	CodeNoSoldiers        Code = "COMBAT_NO_SOLDIERS"
	CodeNoSpies           Code = "COMBAT_NO_SPIES"
	CodeInsufficientTurns Code = "COMBAT_INSUFFICIENT_TURNS"
	CodeUnknownMode       Code = "COMBAT_UNKNOWN_ATTACK_MODE"
	// CodeDataIntegrity 复用 kit 的统一系统码。
	CodeDataIntegrity Code = errx.CodeDataIntegrity
	// CodePersistence 复用 kit 的统一系统码。
	CodePersistence Code = errx.CodePersistence
)

type Error = errx.Error

// 校验类错误（业务拒绝）：发生在任何写入之前，直接返回给调用方。
var (
	ErrAttackerNotFound  = errx.NewBiz(CodeAttackerNotFound, "发起方不存在")
	ErrTargetNotFound    = errx.NewBiz(CodeTargetNotFound, "目标不存在")
	ErrSelfTarget        = errx.NewBiz(CodeSelfTarget, "不能以自己为目标")
	ErrNoSoldiers        = errx.NewBiz(CodeNoSoldiers, "没有可出战的士兵")
	ErrNoSpies           = errx.NewBiz(CodeNoSpies, "没有可派出的间谍")
	ErrInsufficientTurns = errx.NewBiz(CodeInsufficientTurns, "攻击回合不足")
	ErrUnknownMode       = errx.NewBiz(CodeUnknownMode, "未知的进攻模式")
)

// 系统类错误。
var (
	// ErrDataIntegrity 账号存在，但资源/属性/建筑聚合缺失。
	ErrDataIntegrity = errx.ErrDataIntegrity
	// ErrPersistence 事务执行中存储失败，已整体回滚；cause 只进日志。
	ErrPersistence = errx.ErrPersistence
)

// IsValidation 是否为校验类拒绝。
func IsValidation(err error) bool {
	return errx.IsBiz(err)
}

// GetErrorReasonCode 取错误上挂的 reason（没有则为空）。
func GetErrorReasonCode(err error) string {
	var e *errx.Error
	if errors.As(err, &e) {
		return e.Reason()
	}
	return ""
}
