package dbc

import (
	"github.com/gagliardetto/solana-go"
)

// WSOLMint is the wrapped SOL mint used as the quote asset for every pool.
const WSOLMint = "So11111111111111111111111111111111111111112"

// LockedVestingParams mirrors the curve service's vesting parameter block.
type LockedVestingParams struct {
	TotalLockedVestingAmount      uint64 `json:"totalLockedVestingAmount"`
	NumberOfVestingPeriod         uint64 `json:"numberOfVestingPeriod"`
	CliffUnlockAmount             uint64 `json:"cliffUnlockAmount"`
	TotalVestingDuration          uint64 `json:"totalVestingDuration"`
	CliffDurationFromMigrationTime uint64 `json:"cliffDurationFromMigrationTime"`
}

// FeeSchedulerParams configures the base trading fee schedule.
type FeeSchedulerParams struct {
	StartingFeeBps uint64 `json:"startingFeeBps"`
	EndingFeeBps   uint64 `json:"endingFeeBps"`
	NumberOfPeriod uint64 `json:"numberOfPeriod"`
	TotalDuration  uint64 `json:"totalDuration"`
}

// BaseFeeParams wraps the fee mode and its schedule.
type BaseFeeParams struct {
	BaseFeeMode        int                `json:"baseFeeMode"`
	FeeSchedulerParams FeeSchedulerParams `json:"feeSchedulerParam"`
}

// MigrationFee configures fees applied at pool migration time.
type MigrationFee struct {
	FeePercentage        int `json:"feePercentage"`
	CreatorFeePercentage int `json:"creatorFeePercentage"`
}

// MigratedPoolFee configures the fee setup of the post-migration pool.
type MigratedPoolFee struct {
	CollectFeeMode int `json:"collectFeeMode"`
	DynamicFee     int `json:"dynamicFee"`
	PoolFeeBps     int `json:"poolFeeBps"`
}

// CurveConfig is the full parameter set handed to the external curve
// builder. All pricing math happens inside the service; this struct only
// carries the knobs.
type CurveConfig struct {
	TotalTokenSupply             uint64              `json:"totalTokenSupply"`
	PercentageSupplyOnMigration  int                 `json:"percentageSupplyOnMigration"`
	MigrationQuoteThreshold      uint64              `json:"migrationQuoteThreshold"`
	MigrationOption              int                 `json:"migrationOption"`
	TokenBaseDecimal             int                 `json:"tokenBaseDecimal"`
	TokenQuoteDecimal            int                 `json:"tokenQuoteDecimal"`
	LockedVestingParams          LockedVestingParams `json:"lockedVestingParam"`
	BaseFeeParams                BaseFeeParams       `json:"baseFeeParams"`
	DynamicFeeEnabled            bool                `json:"dynamicFeeEnabled"`
	ActivationType               int                 `json:"activationType"`
	CollectFeeMode               int                 `json:"collectFeeMode"`
	MigrationFeeOption           int                 `json:"migrationFeeOption"`
	TokenType                    int                 `json:"tokenType"`
	PartnerLpPercentage          int                 `json:"partnerLpPercentage"`
	CreatorLpPercentage          int                 `json:"creatorLpPercentage"`
	PartnerLockedLpPercentage    int                 `json:"partnerLockedLpPercentage"`
	CreatorLockedLpPercentage    int                 `json:"creatorLockedLpPercentage"`
	CreatorTradingFeePercentage  int                 `json:"creatorTradingFeePercentage"`
	Leftover                     uint64              `json:"leftover"`
	TokenUpdateAuthority         int                 `json:"tokenUpdateAuthority"`
	MigrationFee                 MigrationFee        `json:"migrationFee"`
	MigratedPoolFee              MigratedPoolFee     `json:"migratedPoolFee"`
}

// PreCreatePoolParams names the token being launched.
type PreCreatePoolParams struct {
	BaseMint    string `json:"baseMint"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	URI         string `json:"uri"`
	PoolCreator string `json:"poolCreator"`
}

// FirstBuyParams describes the optional initial buy bundled with a launch.
type FirstBuyParams struct {
	Buyer             string `json:"buyer"`
	BuyAmountLamports uint64 `json:"buyAmount"`
	MinimumAmountOut  uint64 `json:"minimumAmountOut"`
}

// LaunchParams is the request for CreateConfigAndPoolWithFirstBuy.
type LaunchParams struct {
	CurveConfig
	Payer            string              `json:"payer"`
	Config           string              `json:"config"`
	FeeClaimer       string              `json:"feeClaimer"`
	LeftoverReceiver string              `json:"leftoverReceiver"`
	QuoteMint        string              `json:"quoteMint"`
	PreCreatePool    PreCreatePoolParams `json:"preCreatePoolParam"`
	FirstBuy         *FirstBuyParams     `json:"firstBuyParam,omitempty"`
}

// LaunchTransactions is the unsigned transaction set returned by the
// builder: config creation, pool creation and the optional first buy.
type LaunchTransactions struct {
	CreateConfigTx *solana.Transaction
	CreatePoolTx   *solana.Transaction
	SwapBuyTx      *solana.Transaction
}

// PoolFees is one fee accounting entry. Amounts are strings in the
// ledger's smallest unit, as returned by the service.
type PoolFees struct {
	PoolAddress          string `json:"poolAddress"`
	PartnerBaseFee       string `json:"partnerBaseFee"`
	PartnerQuoteFee      string `json:"partnerQuoteFee"`
	CreatorBaseFee       string `json:"creatorBaseFee"`
	CreatorQuoteFee      string `json:"creatorQuoteFee"`
	TotalTradingBaseFee  string `json:"totalTradingBaseFee"`
	TotalTradingQuoteFee string `json:"totalTradingQuoteFee"`
}

// PoolFeeMetrics groups the claimable and lifetime fee totals of one pool.
type PoolFeeMetrics struct {
	Current struct {
		PartnerBaseFee  string `json:"partnerBaseFee"`
		PartnerQuoteFee string `json:"partnerQuoteFee"`
		CreatorBaseFee  string `json:"creatorBaseFee"`
		CreatorQuoteFee string `json:"creatorQuoteFee"`
	} `json:"current"`
	Total struct {
		TotalTradingBaseFee  string `json:"totalTradingBaseFee"`
		TotalTradingQuoteFee string `json:"totalTradingQuoteFee"`
	} `json:"total"`
}

// ClaimParams parameterizes a partner or creator fee claim transaction.
// Creator is only used for creator claims, FeeClaimer only for partner
// claims.
type ClaimParams struct {
	Pool           string `json:"pool"`
	FeeClaimer     string `json:"feeClaimer,omitempty"`
	Creator        string `json:"creator,omitempty"`
	Payer          string `json:"payer"`
	MaxBaseAmount  string `json:"maxBaseAmount"`
	MaxQuoteAmount string `json:"maxQuoteAmount"`
	Receiver       string `json:"receiver,omitempty"`
	TempWSolAcc    string `json:"tempWSolAcc,omitempty"`
}
