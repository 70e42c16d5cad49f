package mysql

import (
	"context"
	"maps"

	"gorm.io/gorm"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

type columnDelta struct {
	col   string
	delta int64
}

// relativeUpdate 拼出 col = col + ?，扣减列额外带上 col + ? >= 0 条件；
// 条件不满足时 RowsAffected 为 0，整行不写。
func relativeUpdate(q *gorm.DB, cols []columnDelta, extra map[string]any) *gorm.DB {
	updates := make(map[string]any, len(cols)+len(extra))
	for _, c := range cols {
		if c.delta == 0 {
			continue
		}
		updates[c.col] = gorm.Expr(c.col+" + ?", c.delta)
		if c.delta < 0 {
			q = q.Where(c.col+" + ? >= 0", c.delta)
		}
	}
	maps.Copy(updates, extra)
	return q.Updates(updates)
}

// rejected 相对更新没有命中行时区分“行不存在”和“会扣成负数”。
func rejected(ctx context.Context, db *gorm.DB, m any, where string, id int64, notFound *domain.Error, op string) error {
	var n int64
	if err := conn(ctx, db).Model(m).Where(where, id).Count(&n).Error; err != nil {
		return unavailable(op, err, "id", id)
	}
	if n == 0 {
		return notFound.WithData("id", id)
	}
	return domain.ErrNegativeBalance.WithData("id", id)
}

// unavailable 技术错误统一包成系统不可用，保留 cause 供日志溯源。
func unavailable(op string, err error, kv ...any) error {
	e := domain.ErrSystemUnavailable.WithData("op", op)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			e = e.WithData(k, kv[i+1])
		}
	}
	return e.WithCause(err)
}
