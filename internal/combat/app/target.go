package app

import (
	"strconv"
	"strings"

	"github.com/mungus451/starlight-v2-sub001/internal/combat/domain"
)

func parseAccountID(s string) (domain.AccountID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return domain.AccountID(id), true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
