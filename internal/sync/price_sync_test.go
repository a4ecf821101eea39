package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/dbc"
	"launchcontrol/pkg/jupiter"
)

func TestChunkRecords(t *testing.T) {
	makeRecords := func(n int) []models.LaunchRecord {
		records := make([]models.LaunchRecord, n)
		for i := range records {
			records[i].BaseMint = string(rune('A' + i))
		}
		return records
	}

	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Nil(t, chunkRecords(nil, 100))
	})

	t.Run("single partial chunk", func(t *testing.T) {
		chunks := chunkRecords(makeRecords(3), 5)
		require.Len(t, chunks, 1)
		assert.Len(t, chunks[0], 3)
	})

	t.Run("exact multiple", func(t *testing.T) {
		chunks := chunkRecords(makeRecords(10), 5)
		require.Len(t, chunks, 2)
		assert.Len(t, chunks[0], 5)
		assert.Len(t, chunks[1], 5)
	})

	t.Run("remainder goes in last chunk", func(t *testing.T) {
		chunks := chunkRecords(makeRecords(12), 5)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[2], 2)
	})
}

func TestFilterConfigured(t *testing.T) {
	records := []models.LaunchRecord{
		{BaseMint: "mint1", ConfigAddress: "cfg1"},
		{BaseMint: "mint2"},
		{BaseMint: "mint3", ConfigAddress: "cfg3"},
	}

	configured := filterConfigured(records)
	require.Len(t, configured, 2)
	assert.Equal(t, "mint1", configured[0].BaseMint)
	assert.Equal(t, "mint3", configured[1].BaseMint)
}

func TestBuildPriceUpdates(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []models.LaunchRecord{
		{BaseMint: "mintA"},
		{BaseMint: "mintB"},
	}

	t.Run("maps response fields onto columns", func(t *testing.T) {
		byMint := map[string]jupiter.TokenData{
			"mintA": {
				ID:           "mintA",
				UsdPrice:     0.00042,
				Mcap:         420000,
				BondingCurve: 37.5,
				Stats24h: jupiter.TokenStats24h{
					PriceChange: -12.3,
					BuyVolume:   9001,
				},
			},
		}

		updates := buildPriceUpdates(records, byMint, now)
		require.Len(t, updates, 1)
		assert.Equal(t, "mintA", updates[0].baseMint)
		assert.Equal(t, 0.00042, updates[0].fields["usd_price"])
		assert.Equal(t, float64(420000), updates[0].fields["market_cap"])
		assert.Equal(t, 37.5, updates[0].fields["bonding_curve"])
		assert.Equal(t, -12.3, updates[0].fields["price_change24h"])
		assert.Equal(t, float64(9001), updates[0].fields["volume24h"])
		assert.Equal(t, now, updates[0].fields["last_price_update"])
	})

	t.Run("records missing from the response are skipped", func(t *testing.T) {
		updates := buildPriceUpdates(records, map[string]jupiter.TokenData{}, now)
		assert.Empty(t, updates)
	})

	t.Run("same input builds same updates", func(t *testing.T) {
		byMint := map[string]jupiter.TokenData{
			"mintA": {ID: "mintA", UsdPrice: 1.5},
			"mintB": {ID: "mintB", UsdPrice: 2.5},
		}

		first := buildPriceUpdates(records, byMint, now)
		second := buildPriceUpdates(records, byMint, now)
		assert.Equal(t, first, second)
	})
}

func TestBuildFeeUpdate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("converts lamport strings to SOL", func(t *testing.T) {
		fees := []dbc.PoolFees{{
			CreatorQuoteFee:      "1500000000",
			PartnerQuoteFee:      "500000000",
			TotalTradingQuoteFee: "2000000000",
		}}

		fields, ok := buildFeeUpdate(fees, now)
		require.True(t, ok)
		assert.Equal(t, 1.5, fields["creator_fees"])
		assert.Equal(t, 0.5, fields["partner_fees"])
		assert.Equal(t, 2.0, fields["total_trading_fees"])
		assert.Equal(t, now, fields["last_fee_update"])
	})

	t.Run("only the first entry counts", func(t *testing.T) {
		fees := []dbc.PoolFees{
			{CreatorQuoteFee: "1000000000", PartnerQuoteFee: "0", TotalTradingQuoteFee: "1000000000"},
			{CreatorQuoteFee: "9000000000", PartnerQuoteFee: "0", TotalTradingQuoteFee: "9000000000"},
		}

		fields, ok := buildFeeUpdate(fees, now)
		require.True(t, ok)
		assert.Equal(t, 1.0, fields["creator_fees"])
	})

	t.Run("empty fee list", func(t *testing.T) {
		_, ok := buildFeeUpdate(nil, now)
		assert.False(t, ok)
	})

	t.Run("unparseable amount", func(t *testing.T) {
		fees := []dbc.PoolFees{{
			CreatorQuoteFee:      "not-a-number",
			PartnerQuoteFee:      "0",
			TotalTradingQuoteFee: "0",
		}}

		_, ok := buildFeeUpdate(fees, now)
		assert.False(t, ok)
	})
}

func TestPriceMap(t *testing.T) {
	tokens := []jupiter.TokenData{
		{ID: "m1", UsdPrice: 1},
		{ID: "m2", UsdPrice: 2},
	}

	byMint := priceMap(tokens)
	require.Len(t, byMint, 2)
	assert.Equal(t, float64(2), byMint["m2"].UsdPrice)
}
