package domain

type AccountID int64
type AllianceID int64

// Account 账号在结算核心里的最小视图：id、名字、所属联盟（0 表示无联盟）。
type Account struct {
	ID         AccountID
	Name       string
	AllianceID AllianceID
}

func (a Account) InAlliance() bool {
	return a.AllianceID != 0
}
