package power

import (
	"math"

	"github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"
)

// LevelForXP 累计经验对应的等级：从 1 级起，升到 n+1 级需要 XPBase*n*n，
// 即 level = 1 + isqrt(xp/XPBase)。XPBase<=0 时等级恒为 1。
func LevelForXP(cfg balance.LevelConfig, xp int64) int64 {
	if cfg.XPBase <= 0 || xp < cfg.XPBase {
		return 1
	}
	level := 1 + isqrt(xp/cfg.XPBase)
	if cfg.MaxLevel > 0 && level > cfg.MaxLevel {
		return cfg.MaxLevel
	}
	return level
}

// isqrt floor(sqrt(n))，n>=0；浮点结果按整数修正，避免大数精度误差。
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for (r+1) <= n/(r+1) {
		r++
	}
	return r
}
