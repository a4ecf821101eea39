package dbc

// Creator fee share bounds. The creator may take at most 90% of locked
// liquidity; the platform always keeps at least 10%.
const (
	MinCreatorFeeShare = 0
	MaxCreatorFeeShare = 90
)

// ClampCreatorFeeShare forces a requested share into [0, 90].
func ClampCreatorFeeShare(pct int) int {
	if pct < MinCreatorFeeShare {
		return MinCreatorFeeShare
	}
	if pct > MaxCreatorFeeShare {
		return MaxCreatorFeeShare
	}
	return pct
}

// BuildCurveConfig returns the launch curve configuration for a given
// creator fee share. Everything except the locked-LP split is fixed
// platform policy: 1B supply, 20% on migration at an 80 SOL threshold,
// flat 200 bps trading fee.
func BuildCurveConfig(creatorFeePct int) CurveConfig {
	share := ClampCreatorFeeShare(creatorFeePct)
	platformShare := 100 - share

	return CurveConfig{
		TotalTokenSupply:            1_000_000_000,
		PercentageSupplyOnMigration: 20,
		MigrationQuoteThreshold:     80,
		MigrationOption:             1,
		TokenBaseDecimal:            9,
		TokenQuoteDecimal:           9,
		LockedVestingParams:         LockedVestingParams{},
		BaseFeeParams: BaseFeeParams{
			BaseFeeMode: 0,
			FeeSchedulerParams: FeeSchedulerParams{
				StartingFeeBps: 200,
				EndingFeeBps:   200,
			},
		},
		DynamicFeeEnabled:           false,
		ActivationType:              0,
		CollectFeeMode:              0,
		MigrationFeeOption:          4,
		TokenType:                   0,
		PartnerLockedLpPercentage:   platformShare,
		CreatorLockedLpPercentage:   share,
		CreatorTradingFeePercentage: 0,
		TokenUpdateAuthority:        1,
	}
}
