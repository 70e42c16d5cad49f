package domain

import "github.com/mungus451/starlight-v2-sub001/internal/shared/gameconfig/balance"

// LoadoutSlot 兵种 + 槽位，指向一件已装备的装备。
type LoadoutSlot struct {
	Unit balance.Unit
	Slot string
}

// Armory 账号军械库：装备库存与每个 (兵种, 槽位) 当前装备的 key。
// entity
type Armory struct {
	AccountID AccountID
	Stock     map[string]int64
	Loadout   map[LoadoutSlot]string
}

func (a Armory) StockOf(itemKey string) int64 {
	if a.Stock == nil {
		return 0
	}
	return a.Stock[itemKey]
}

// EquippedFor 返回某兵种所有槽位上装备的 key（无序）。
func (a Armory) EquippedFor(unit balance.Unit) []string {
	out := make([]string, 0, 2)
	for slot, key := range a.Loadout {
		if slot.Unit == unit && key != "" {
			out = append(out, key)
		}
	}
	return out
}
