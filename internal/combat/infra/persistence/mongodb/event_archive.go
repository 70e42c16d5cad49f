// Package mongodb 结算事件归档，供战争积分、战报检索等下游读取。
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

const defaultEventCollectionName = "combat_events"

const (
	OpArchiveEvent = "repo.combat.ArchiveEvent"
	OpListEvents   = "repo.combat.ListEventsByAccount"
)

// EventDoc 归档文档，_id 为事件 id，补发时覆盖写入。
type EventDoc struct {
	ID         int64            `bson:"_id"`
	Kind       string           `bson:"kind"`
	AttackerID int64            `bson:"attacker_id"`
	DefenderID int64            `bson:"defender_id"`
	ReportID   int64            `bson:"report_id"`
	Result     string           `bson:"result"`
	Numbers    map[string]int64 `bson:"numbers,omitempty"`
	OccurredAt time.Time        `bson:"occurred_at"`
	ArchivedAt time.Time        `bson:"archived_at"`
}

type EventArchive struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewEventArchive(db *mongo.Database) *EventArchive {
	if db == nil {
		return &EventArchive{now: time.Now}
	}
	return &EventArchive{coll: db.Collection(defaultEventCollectionName), now: time.Now}
}

func (a *EventArchive) Name() string { return "mongodb_event_archive" }

// EnsureIndexes 按参战双方查询最近事件。
func (a *EventArchive) EnsureIndexes(ctx context.Context) error {
	if a == nil || a.coll == nil {
		return errors.New("mongodb event collection is nil")
	}
	_, err := a.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "attacker_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "defender_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	return err
}

func (a *EventArchive) Handle(ctx context.Context, ev domain.Event) error {
	if a == nil || a.coll == nil {
		return domain.ErrSystemUnavailable.WithData("op", OpArchiveEvent).WithCause(errors.New("mongodb event collection is nil"))
	}
	doc := toDoc(ev, a.now())
	_, err := a.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return domain.ErrSystemUnavailable.WithData("op", OpArchiveEvent).WithData("event_id", ev.ID).WithCause(err)
	}
	return nil
}

// ListByAccount 某账号作为进攻方或防守方的最近事件，按时间倒序。
func (a *EventArchive) ListByAccount(ctx context.Context, id domain.AccountID, limit int64) ([]domain.Event, error) {
	if a == nil || a.coll == nil {
		return nil, domain.ErrSystemUnavailable.WithData("op", OpListEvents).WithCause(errors.New("mongodb event collection is nil"))
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"attacker_id": int64(id)},
		bson.M{"defender_id": int64(id)},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := a.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("op", OpListEvents).WithCause(err)
	}
	var docs []EventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("op", OpListEvents).WithCause(err)
	}
	out := make([]domain.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func toDoc(ev domain.Event, at time.Time) EventDoc {
	return EventDoc{
		ID:         ev.ID,
		Kind:       string(ev.Kind),
		AttackerID: int64(ev.AttackerID),
		DefenderID: int64(ev.DefenderID),
		ReportID:   ev.ReportID,
		Result:     ev.Result,
		Numbers:    ev.Numbers,
		OccurredAt: ev.OccurredAt,
		ArchivedAt: at,
	}
}

func fromDoc(d EventDoc) domain.Event {
	return domain.Event{
		ID:         d.ID,
		Kind:       domain.EventKind(d.Kind),
		AttackerID: domain.AccountID(d.AttackerID),
		DefenderID: domain.AccountID(d.DefenderID),
		ReportID:   d.ReportID,
		Result:     d.Result,
		Numbers:    d.Numbers,
		OccurredAt: d.OccurredAt,
	}
}
