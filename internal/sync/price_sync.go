package sync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/dbc"
	"launchcontrol/pkg/jupiter"
)

const (
	priceChunkSize  = 100
	priceChunkDelay = 200 * time.Millisecond

	// Fee lookups hit the curve service once per record, so chunks are
	// small and the pause between them long.
	feeChunkSize  = 5
	feeChunkDelay = 1000 * time.Millisecond

	lamportsPerSOL = 1e9
)

// PriceAPI is the batch token price lookup.
type PriceAPI interface {
	SearchByMints(ctx context.Context, mints []string) ([]jupiter.TokenData, error)
}

// FeeAPI is the per-config fee accounting lookup.
type FeeAPI interface {
	GetPoolsFeesByConfig(ctx context.Context, configAddress string) ([]dbc.PoolFees, error)
}

// Result summarizes one sync run.
type Result struct {
	UpdatedCount    int `json:"updatedCount"`
	FeeUpdatedCount int `json:"feeUpdatedCount"`
	TotalTokens     int `json:"totalTokens"`
}

// Syncer refreshes price and fee fields on all launch records. Runs are
// idempotent and best effort: a record whose lookup or write fails keeps
// its previous values until the next run.
type Syncer struct {
	DB     *gorm.DB
	Prices PriceAPI
	Fees   FeeAPI

	// Sleep and Now are injectable for tests; nil uses the real clock.
	Sleep func(time.Duration)
	Now   func() time.Time
}

type fieldUpdate struct {
	baseMint string
	fields   map[string]interface{}
}

// Run executes one full sync pass. It only fails outright when the
// initial record read fails; every external lookup failure is logged and
// skipped.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	var records []models.LaunchRecord
	if err := s.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read launch records: %w", err)
	}

	result := &Result{TotalTokens: len(records)}
	if len(records) == 0 {
		log.Info("No launch records to update")
		return result, nil
	}
	log.Infof("Starting price sync for %d records", len(records))

	now := s.now()

	var priceUpdates []fieldUpdate
	for i, chunk := range chunkRecords(records, priceChunkSize) {
		if i > 0 {
			s.sleep(priceChunkDelay)
		}

		mints := make([]string, 0, len(chunk))
		for _, rec := range chunk {
			mints = append(mints, rec.BaseMint)
		}

		tokens, err := s.Prices.SearchByMints(ctx, mints)
		if err != nil {
			log.Errorf("Price lookup failed for chunk %d: %v", i+1, err)
			continue
		}
		priceUpdates = append(priceUpdates, buildPriceUpdates(chunk, priceMap(tokens), now)...)
	}
	result.UpdatedCount = s.applyUpdates(ctx, priceUpdates)
	log.Infof("Updated prices for %d of %d records", result.UpdatedCount, len(records))

	configured := filterConfigured(records)
	log.Infof("Found %d records with config addresses for fee updates", len(configured))

	var feeUpdates []fieldUpdate
	for i, chunk := range chunkRecords(configured, feeChunkSize) {
		if i > 0 {
			s.sleep(feeChunkDelay)
		}

		for _, rec := range chunk {
			fees, err := s.Fees.GetPoolsFeesByConfig(ctx, rec.ConfigAddress)
			if err != nil {
				log.Errorf("Fee lookup failed for %s (%s): %v", rec.Symbol, rec.ConfigAddress, err)
				continue
			}
			fields, ok := buildFeeUpdate(fees, now)
			if !ok {
				log.Infof("No fee data for %s", rec.Symbol)
				continue
			}
			feeUpdates = append(feeUpdates, fieldUpdate{baseMint: rec.BaseMint, fields: fields})
		}
	}
	result.FeeUpdatedCount = s.applyUpdates(ctx, feeUpdates)
	log.Infof("Updated fees for %d of %d configured records", result.FeeUpdatedCount, len(configured))

	return result, nil
}

// SyncOne refreshes a single record right away, used when a launch event
// arrives rather than waiting for the next scheduled run.
func (s *Syncer) SyncOne(ctx context.Context, baseMint string) error {
	var record models.LaunchRecord
	if err := s.DB.WithContext(ctx).Where("base_mint = ?", baseMint).First(&record).Error; err != nil {
		return fmt.Errorf("failed to load record %s: %w", baseMint, err)
	}

	now := s.now()

	tokens, err := s.Prices.SearchByMints(ctx, []string{record.BaseMint})
	if err != nil {
		log.Errorf("Price lookup failed for %s: %v", baseMint, err)
	} else {
		updates := buildPriceUpdates([]models.LaunchRecord{record}, priceMap(tokens), now)
		s.applyUpdates(ctx, updates)
	}

	if record.ConfigAddress == "" {
		return nil
	}
	fees, err := s.Fees.GetPoolsFeesByConfig(ctx, record.ConfigAddress)
	if err != nil {
		log.Errorf("Fee lookup failed for %s: %v", baseMint, err)
		return nil
	}
	if fields, ok := buildFeeUpdate(fees, now); ok {
		s.applyUpdates(ctx, []fieldUpdate{{baseMint: record.BaseMint, fields: fields}})
	}
	return nil
}

func (s *Syncer) applyUpdates(ctx context.Context, updates []fieldUpdate) int {
	applied := 0
	for _, u := range updates {
		err := s.DB.WithContext(ctx).
			Model(&models.LaunchRecord{}).
			Where("base_mint = ?", u.baseMint).
			Updates(u.fields).Error
		if err != nil {
			log.Errorf("Failed to update record %s: %v", u.baseMint, err)
			continue
		}
		applied++
	}
	return applied
}

func (s *Syncer) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func chunkRecords(records []models.LaunchRecord, size int) [][]models.LaunchRecord {
	var chunks [][]models.LaunchRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

func filterConfigured(records []models.LaunchRecord) []models.LaunchRecord {
	var out []models.LaunchRecord
	for _, rec := range records {
		if rec.ConfigAddress != "" {
			out = append(out, rec)
		}
	}
	return out
}

func priceMap(tokens []jupiter.TokenData) map[string]jupiter.TokenData {
	byMint := make(map[string]jupiter.TokenData, len(tokens))
	for _, token := range tokens {
		byMint[token.ID] = token
	}
	return byMint
}

// buildPriceUpdates pairs records with their price data. Records whose
// mint is absent from the response are skipped, not zeroed.
func buildPriceUpdates(records []models.LaunchRecord, byMint map[string]jupiter.TokenData, now time.Time) []fieldUpdate {
	var updates []fieldUpdate
	for _, rec := range records {
		token, ok := byMint[rec.BaseMint]
		if !ok {
			continue
		}
		updates = append(updates, fieldUpdate{
			baseMint: rec.BaseMint,
			fields: map[string]interface{}{
				"usd_price":         token.UsdPrice,
				"market_cap":        token.Mcap,
				"bonding_curve":     token.BondingCurve,
				"price_change24h":   token.Stats24h.PriceChange,
				"volume24h":         token.Stats24h.BuyVolume,
				"last_price_update": now,
			},
		})
	}
	return updates
}

// buildFeeUpdate converts the first fee entry from lamports to SOL.
func buildFeeUpdate(fees []dbc.PoolFees, now time.Time) (map[string]interface{}, bool) {
	if len(fees) == 0 {
		return nil, false
	}
	first := fees[0]

	creator, err := strconv.ParseFloat(first.CreatorQuoteFee, 64)
	if err != nil {
		return nil, false
	}
	partner, err := strconv.ParseFloat(first.PartnerQuoteFee, 64)
	if err != nil {
		return nil, false
	}
	total, err := strconv.ParseFloat(first.TotalTradingQuoteFee, 64)
	if err != nil {
		return nil, false
	}

	return map[string]interface{}{
		"creator_fees":       creator / lamportsPerSOL,
		"partner_fees":       partner / lamportsPerSOL,
		"total_trading_fees": total / lamportsPerSOL,
		"last_fee_update":    now,
	}, true
}
