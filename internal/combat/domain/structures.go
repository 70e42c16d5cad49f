package domain

type StructureKind string

const (
	StructureOffense       StructureKind = "offense"
	StructureDefense       StructureKind = "defense"
	StructureFortification StructureKind = "fortification"
	StructureEconomy       StructureKind = "economy"
	StructurePopulation    StructureKind = "population"
	StructureArmory        StructureKind = "armory"
	StructureSpy           StructureKind = "spy"
	StructureSentry        StructureKind = "sentry"
)

// AllStructures 持久化层按这个顺序读写建筑列。
var AllStructures = []StructureKind{
	StructureOffense,
	StructureDefense,
	StructureFortification,
	StructureEconomy,
	StructurePopulation,
	StructureArmory,
	StructureSpy,
	StructureSentry,
}

// StructureLevels 账号建筑等级，只增不减。
// entity
type StructureLevels struct {
	AccountID AccountID
	Levels    map[StructureKind]int64
}

func (s StructureLevels) Level(kind StructureKind) int64 {
	if s.Levels == nil {
		return 0
	}
	return s.Levels[kind]
}
