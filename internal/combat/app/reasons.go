package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 技术错误 reason（服务内枚举），用于日志与排障。
	ReasonAccountReadFail   = NewReason("ACCOUNT_READ_FAIL", "账号读取失败")
	ReasonSnapshotReadFail  = NewReason("SNAPSHOT_READ_FAIL", "账号快照读取失败")
	ReasonAggregateMissing  = NewReason("AGGREGATE_MISSING", "账号聚合缺失")
	ReasonLedgerWriteFail   = NewReason("LEDGER_WRITE_FAIL", "资源账本写入失败")
	ReasonStatsWriteFail    = NewReason("STATS_WRITE_FAIL", "战斗属性写入失败")
	ReasonTreasuryWriteFail = NewReason("TREASURY_WRITE_FAIL", "联盟金库写入失败")
	ReasonReportWriteFail   = NewReason("REPORT_WRITE_FAIL", "战报写入失败")
	ReasonOutboxWriteFail   = NewReason("OUTBOX_WRITE_FAIL", "事件写入失败")
	ReasonAllianceListFail  = NewReason("ALLIANCE_LIST_FAIL", "联盟列表读取失败")
)
