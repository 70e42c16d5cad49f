package rng

import (
	"sync"
	"testing"
)

func TestNew_同种子同序列(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("期望同种子第 %d 次取值相同", i)
		}
	}
}

func TestLockedSeeder_确定且并发安全(t *testing.T) {
	s1, err := NewSeeder(7)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	s2, _ := NewSeeder(7)
	for i := 0; i < 10; i++ {
		if s1.NextSeed() != s2.NextSeed() {
			t.Fatalf("期望同主种子派生同样的种子序列")
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = s1.NextSeed()
			}
		}()
	}
	wg.Wait()
}

func TestNewSeeder_零种子使用随机种子(t *testing.T) {
	s, err := NewSeeder(0)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	_ = s.NextSeed()
}

func TestFixed_循环返回(t *testing.T) {
	f := NewFixed(0.1, 0.9)
	got := []float64{f.Float64(), f.Float64(), f.Float64()}
	if got[0] != 0.1 || got[1] != 0.9 || got[2] != 0.1 {
		t.Fatalf("got=%v", got)
	}
	if f.Draws() != 3 {
		t.Fatalf("期望取值 3 次, got=%d", f.Draws())
	}
}
