package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 这里只放“系统/技术类”错误码，用于告警归一化与排障
// - 业务拒绝（目标不存在、回合不足等）由各业务域自行定义，不集中在 kit

const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（DB/Mongo/下游等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
	// CodeDataIntegrity 账号存在，但其依赖的聚合（资源/属性/建筑）缺失。
	CodeDataIntegrity Code = "DATA_INTEGRITY"
	// CodePersistence 事务执行中存储失败，已整体回滚。
	CodePersistence Code = "PERSISTENCE_FAILURE"
)

// 系统类哨兵错误（通过 WithData/WithCause 派生新对象，禁止直接修改）。
var (
	ErrInternal      = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable   = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout       = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR   = NewSys(CodeReqParamError, "请求参数错误")
	ErrDataIntegrity = NewSys(CodeDataIntegrity, "数据不完整")
	ErrPersistence   = NewSys(CodePersistence, "操作失败，请稍后重试")
)
