package balance

// Default 返回一份可直接使用的平衡表（已 Init），测试与本地演示使用。
// 线上以 configs/balance.yml 为准。
func Default() *Config {
	c := &Config{
		Power: PowerConfig{
			SoldierPower:          1.0,
			GuardPower:            1.0,
			SpyPower:              1.0,
			SentryPower:           1.0,
			OffensePerLevel:       0.05,
			DefensePerLevel:       0.05,
			FortificationPerLevel: 0.03,
			SpyPerLevel:           0.05,
			SentryPerLevel:        0.05,
			StrengthPerPoint:      0.01,
			ConstitutionPerPoint:  0.01,
			DexterityPerPoint:     0.01,
			CharismaPerPoint:      0.01,
		},
		Income: IncomeConfig{
			CreditPerEconLevel:      1000,
			CreditPerWorker:         50,
			WealthPerPoint:          0.01,
			BankInterestRate:        0.001,
			CitizensPerPopulationLv: 5,
			TurnsPerTick:            1,
		},
		Attack: AttackConfig{
			PlunderTurnCost:  1,
			SkirmishTurnCost: 1,
			WinnerCasualty:   Range{Min: 0.01, Max: 0.05},
			LoserCasualty:    Range{Min: 0.05, Max: 0.10},
			CasualtyScalar:   1.0,
			PlunderPct:       0.10,
			NetWorthStealPct: 0.05,
			PrestigeGain:     10,
			XPVictory:        100,
			XPStalemate:      50,
			XPDefeat:         25,
			XPDefender:       20,
		},
		Spy: SpyConfig{
			TurnCost:          1,
			SuccessMultiplier: 1.2,
			SuccessFloor:      0.05,
			SuccessCap:        0.95,
			CounterMultiplier: 1.0,
			CounterCap:        0.75,
			SpyLoss:           Range{Min: 0.05, Max: 0.15},
			SentryLoss:        Range{Min: 0.01, Max: 0.05},
			XPSuccess:         40,
			XPFailure:         15,
			XPCaught:          5,
			XPDefenderCaught:  25,
		},
		Level: LevelConfig{XPBase: 1000},
		Armory: map[Unit]map[string]map[string]ItemBonus{
			UnitSoldier: {
				"main_weapon": {
					"pulse_rifle": {Role: RoleOffense, Bonus: 10},
				},
			},
			UnitGuard: {
				"armor": {
					"plasteel_vest": {Role: RoleDefense, Bonus: 8},
				},
			},
			UnitSpy: {
				"gadget": {
					"cloak_field": {Role: RoleSpy, Bonus: 5},
				},
			},
			UnitSentry: {
				"sensor": {
					"motion_tracker": {Role: RoleSentry, Bonus: 5},
				},
			},
			UnitWorker: {
				"tool": {
					"fusion_drill": {Role: RoleCredit, Bonus: 2},
				},
			},
		},
	}
	if err := c.Init(); err != nil {
		panic(err)
	}
	return c
}
