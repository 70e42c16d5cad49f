package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

func TestEventArchive_未连接时返回系统错误(t *testing.T) {
	a := NewEventArchive(nil)
	err := a.Handle(context.Background(), domain.Event{ID: 1})
	require.ErrorIs(t, err, domain.ErrSystemUnavailable)
	require.Error(t, a.EnsureIndexes(context.Background()))

	events, err := a.ListByAccount(context.Background(), 1, 10)
	require.ErrorIs(t, err, domain.ErrSystemUnavailable)
	require.Nil(t, events)
}

func TestEventDoc_保留事件字段(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := domain.Event{
		ID:         9,
		Kind:       domain.EventSpyDetectedNotified,
		AttackerID: 1,
		DefenderID: 2,
		ReportID:   77,
		Result:     "caught",
		Numbers:    map[string]int64{"spies_lost": 3},
		OccurredAt: at,
	}
	doc := toDoc(ev, at.Add(time.Second))
	require.Equal(t, ev.ID, doc.ID)
	require.Equal(t, at.Add(time.Second), doc.ArchivedAt)
	require.Equal(t, ev, fromDoc(doc))
}
