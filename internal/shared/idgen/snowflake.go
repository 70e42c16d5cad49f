// Package idgen 战报/事件/金库流水的 64 位 id。
//
// 布局：41 位毫秒时间（自 2024-01-01 UTC）| 10 位节点 | 12 位序号。
// 同一节点内严格递增，多节点部署时 engine.node_id 必须不同。
package idgen

import (
	"fmt"
	"sync"
	"time"
)

const (
	epochMilli int64 = 1704067200000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	MaxNode int64 = -1 ^ (-1 << nodeBits)
	maxSeq  int64 = -1 ^ (-1 << seqBits)
)

type Snowflake struct {
	mu     sync.Mutex
	node   int64
	lastMS int64
	seq    int64
	now    func() time.Time
}

func NewSnowflake(node int64) (*Snowflake, error) {
	return newSnowflake(node, time.Now)
}

func newSnowflake(node int64, now func() time.Time) (*Snowflake, error) {
	if node < 0 || node > MaxNode {
		return nil, fmt.Errorf("snowflake node out of range [0,%d]: %d", MaxNode, node)
	}
	return &Snowflake{node: node, now: now}, nil
}

// NextID 时钟回拨时沿用上一次的毫秒，序号用尽则等下一毫秒。
func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := max(s.now().UnixMilli(), s.lastMS)
	if ms == s.lastMS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			for ms <= s.lastMS {
				ms = s.now().UnixMilli()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastMS = ms
	return (ms-epochMilli)<<(nodeBits+seqBits) | s.node<<seqBits | s.seq
}

// Node 从 id 中取回节点号，排障用。
func Node(id int64) int64 {
	return (id >> seqBits) & MaxNode
}
