// Package mysql 结算存储端口的 gorm 实现（MySQL 部署，sqlite 用于测试与单机运行）。
//
// 事务通过 ctx 传递：Transactor.InTx 把 *gorm.DB 事务放进 ctx，
// 各 repo 通过 conn(ctx) 取出；ctx 中没有事务时使用普通连接。
package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/infra/persistence/model"
)

type txKey struct{}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// InTx ctx 中已有事务时在其上开保存点，失败只回滚到保存点，不提交外层事务。
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := txFrom(ctx); ok {
		return tx.Transaction(func(sp *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, sp))
		})
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (t *Transactor) InTransaction(ctx context.Context) bool {
	_, ok := txFrom(ctx)
	return ok
}

func txFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// conn 优先使用 ctx 中的事务。
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := txFrom(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// locked 事务内的读取加行锁（SELECT ... FOR UPDATE），事务外不加。
func locked(ctx context.Context, db *gorm.DB) *gorm.DB {
	q := conn(ctx, db)
	if _, ok := txFrom(ctx); ok {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return q
}

// AutoMigrate 建表/补列，启动时调用。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
