// Package rng 结算使用的随机源。
//
// 每次结算从 Seeder 领取一个独立种子，再用该种子构造本次结算专用的 *rand.Rand；
// 种子写进战报，同样的输入 + 同样的种子一定得到同样的结果，可用于复盘。
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source 结算只需要 [0,1) 均匀分布。
type Source interface {
	Float64() float64
}

// Seeder 为每次结算发放种子，实现必须并发安全。
type Seeder interface {
	NextSeed() int64
}

// NewSeed 用 crypto/rand 生成高熵种子。
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New 用种子构造一个结算专用随机源（非并发安全，只在单次结算内使用）。
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// LockedSeeder 由一个主种子派生出种子序列，加锁保证多个调用方并发领取安全。
type LockedSeeder struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeder 主种子为 0 时使用 crypto/rand 生成。
func NewSeeder(seed int64) (*LockedSeeder, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	return &LockedSeeder{r: New(seed)}, nil
}

func (s *LockedSeeder) NextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int63()
}

// Fixed 按顺序返回预设的值，用尽后循环，测试中用来精确控制每一次判定。
type Fixed struct {
	vals []float64
	i    int
}

func NewFixed(vals ...float64) *Fixed {
	return &Fixed{vals: vals}
}

func (f *Fixed) Float64() float64 {
	if len(f.vals) == 0 {
		return 0
	}
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

// Draws 已经取过的次数。
func (f *Fixed) Draws() int {
	return f.i
}
