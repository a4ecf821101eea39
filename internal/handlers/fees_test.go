package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchcontrol/internal/launch"
	"launchcontrol/pkg/dbc"
)

type fakeCurveClient struct {
	feesByConfig   []dbc.PoolFees
	feesByCreator  []dbc.PoolFees
	metrics        *dbc.PoolFeeMetrics
	claimTx        string
	err            error
	lastClaim      dbc.ClaimParams
	claimPartnerOK bool
}

func (f *fakeCurveClient) CreateConfigAndPoolWithFirstBuy(ctx context.Context, params dbc.LaunchParams) (*dbc.LaunchTransactions, error) {
	return nil, f.err
}

func (f *fakeCurveClient) GetPoolsFeesByConfig(ctx context.Context, configAddress string) ([]dbc.PoolFees, error) {
	return f.feesByConfig, f.err
}

func (f *fakeCurveClient) GetPoolsFeesByCreator(ctx context.Context, creatorAddress string) ([]dbc.PoolFees, error) {
	return f.feesByCreator, f.err
}

func (f *fakeCurveClient) GetPoolFeeMetrics(ctx context.Context, poolAddress string) (*dbc.PoolFeeMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func (f *fakeCurveClient) ClaimPartnerTradingFee(ctx context.Context, params dbc.ClaimParams) (string, error) {
	f.lastClaim = params
	f.claimPartnerOK = true
	return f.claimTx, f.err
}

func (f *fakeCurveClient) ClaimCreatorTradingFee(ctx context.Context, params dbc.ClaimParams) (string, error) {
	f.lastClaim = params
	return f.claimTx, f.err
}

func setupFeeRouter(t *testing.T, client *fakeCurveClient, feeClaimer solana.PublicKey) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	Setup(&launch.Orchestrator{FeeClaimer: feeClaimer}, nil, client, nil)

	r := gin.New()
	r.GET("/api/fees", GetFees)
	r.POST("/api/claim-partner-fee", ClaimPartnerFee)
	r.POST("/api/claim-creator-fee", ClaimCreatorFee)
	return r
}

func TestGetFeesModeExclusivity(t *testing.T) {
	r := setupFeeRouter(t, &fakeCurveClient{}, solana.NewWallet().PublicKey())

	for _, tc := range []struct {
		name  string
		query string
	}{
		{"no mode", ""},
		{"two modes", "?configAddress=a&creatorAddress=b"},
		{"all modes", "?configAddress=a&poolAddress=b&creatorAddress=c"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/fees"+tc.query, nil)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetFeesPoolMode(t *testing.T) {
	metrics := &dbc.PoolFeeMetrics{}
	metrics.Current.CreatorQuoteFee = "1000"
	metrics.Total.TotalTradingQuoteFee = "5000"

	r := setupFeeRouter(t, &fakeCurveClient{metrics: metrics}, solana.NewWallet().PublicKey())

	pool := solana.NewWallet().PublicKey().String()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/fees?poolAddress="+pool, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Current struct {
			CreatorQuoteFee string `json:"creatorQuoteFee"`
		} `json:"current"`
		Total struct {
			TotalTradingQuoteFee string `json:"totalTradingQuoteFee"`
		} `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1000", body.Current.CreatorQuoteFee)
	assert.Equal(t, "5000", body.Total.TotalTradingQuoteFee)
}

func TestGetFeesConfigMode(t *testing.T) {
	client := &fakeCurveClient{
		feesByConfig: []dbc.PoolFees{{PoolAddress: "pool1", CreatorQuoteFee: "42"}},
	}
	r := setupFeeRouter(t, client, solana.NewWallet().PublicKey())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/fees?configAddress=cfg", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var fees []dbc.PoolFees
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fees))
	require.Len(t, fees, 1)
	assert.Equal(t, "pool1", fees[0].PoolAddress)
}

func TestGetFeesPoolNotFound(t *testing.T) {
	r := setupFeeRouter(t, &fakeCurveClient{err: dbc.ErrPoolNotFound}, solana.NewWallet().PublicKey())

	pool := solana.NewWallet().PublicKey().String()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/fees?poolAddress="+pool, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimPartnerFee(t *testing.T) {
	feeClaimer := solana.NewWallet().PublicKey()

	t.Run("uses the platform wallet as claimer", func(t *testing.T) {
		client := &fakeCurveClient{claimTx: "dGVzdHR4"}
		r := setupFeeRouter(t, client, feeClaimer)

		pool := solana.NewWallet().PublicKey().String()
		body, _ := json.Marshal(gin.H{"pool": pool})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/claim-partner-fee", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, client.claimPartnerOK)
		assert.Equal(t, feeClaimer.String(), client.lastClaim.FeeClaimer)
		assert.Equal(t, feeClaimer.String(), client.lastClaim.Payer)

		var resp struct {
			Transaction string `json:"transaction"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "dGVzdHR4", resp.Transaction)
	})

	t.Run("rejects malformed pool address", func(t *testing.T) {
		r := setupFeeRouter(t, &fakeCurveClient{}, feeClaimer)

		body, _ := json.Marshal(gin.H{"pool": "not-base58!!"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/claim-partner-fee", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestClaimCreatorFeeRequiresCreator(t *testing.T) {
	r := setupFeeRouter(t, &fakeCurveClient{}, solana.NewWallet().PublicKey())

	pool := solana.NewWallet().PublicKey().String()
	body, _ := json.Marshal(gin.H{"pool": pool})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/claim-creator-fee", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
