package dbc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrPoolNotFound is returned when the curve service reports that the
// referenced pool account does not exist on-chain.
var ErrPoolNotFound = errors.New("pool account does not exist")

// Client is the surface of the external dynamic bonding curve service.
// The service owns all curve math and transaction construction; this side
// only passes parameters and decodes payloads.
type Client interface {
	CreateConfigAndPoolWithFirstBuy(ctx context.Context, params LaunchParams) (*LaunchTransactions, error)
	GetPoolsFeesByConfig(ctx context.Context, configAddress string) ([]PoolFees, error)
	GetPoolsFeesByCreator(ctx context.Context, creatorAddress string) ([]PoolFees, error)
	GetPoolFeeMetrics(ctx context.Context, poolAddress string) (*PoolFeeMetrics, error)
	ClaimPartnerTradingFee(ctx context.Context, params ClaimParams) (string, error)
	ClaimCreatorTradingFee(ctx context.Context, params ClaimParams) (string, error)
}

// APIClient talks to the curve service over HTTP.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the given service base URL. An empty
// baseURL falls back to the DBC_SERVICE_URL environment variable.
func NewAPIClient(baseURL string) *APIClient {
	if baseURL == "" {
		baseURL = os.Getenv("DBC_SERVICE_URL")
	}
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

type launchTxResponse struct {
	CreateConfigTx string `json:"createConfigTx"`
	CreatePoolTx   string `json:"createPoolTx"`
	SwapBuyTx      string `json:"swapBuyTx,omitempty"`
}

type claimTxResponse struct {
	Transaction string `json:"transaction"`
}

type serviceError struct {
	Error string `json:"error"`
}

// CreateConfigAndPoolWithFirstBuy asks the service to build the unsigned
// transaction set for a launch: config creation, pool creation and, if
// FirstBuy is set, the initial buy.
func (c *APIClient) CreateConfigAndPoolWithFirstBuy(ctx context.Context, params LaunchParams) (*LaunchTransactions, error) {
	var resp launchTxResponse
	if err := c.post(ctx, "/pool/create-config-and-pool-with-first-buy", params, &resp); err != nil {
		return nil, err
	}

	configTx, err := DecodeTransaction(resp.CreateConfigTx)
	if err != nil {
		return nil, fmt.Errorf("decode createConfigTx: %w", err)
	}
	poolTx, err := DecodeTransaction(resp.CreatePoolTx)
	if err != nil {
		return nil, fmt.Errorf("decode createPoolTx: %w", err)
	}

	txs := &LaunchTransactions{
		CreateConfigTx: configTx,
		CreatePoolTx:   poolTx,
	}
	if resp.SwapBuyTx != "" {
		buyTx, err := DecodeTransaction(resp.SwapBuyTx)
		if err != nil {
			return nil, fmt.Errorf("decode swapBuyTx: %w", err)
		}
		txs.SwapBuyTx = buyTx
	}
	return txs, nil
}

// GetPoolsFeesByConfig returns fee accounting for all pools under a config.
func (c *APIClient) GetPoolsFeesByConfig(ctx context.Context, configAddress string) ([]PoolFees, error) {
	var fees []PoolFees
	err := c.get(ctx, "/state/pools-fees-by-config", url.Values{"config": {configAddress}}, &fees)
	return fees, err
}

// GetPoolsFeesByCreator returns fee accounting for all pools of a creator.
func (c *APIClient) GetPoolsFeesByCreator(ctx context.Context, creatorAddress string) ([]PoolFees, error) {
	var fees []PoolFees
	err := c.get(ctx, "/state/pools-fees-by-creator", url.Values{"creator": {creatorAddress}}, &fees)
	return fees, err
}

// GetPoolFeeMetrics returns current and lifetime fee totals for one pool.
func (c *APIClient) GetPoolFeeMetrics(ctx context.Context, poolAddress string) (*PoolFeeMetrics, error) {
	var metrics PoolFeeMetrics
	if err := c.get(ctx, "/state/pool-fee-metrics", url.Values{"pool": {poolAddress}}, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// ClaimPartnerTradingFee builds an unsigned partner fee claim transaction
// and returns it base64-encoded.
func (c *APIClient) ClaimPartnerTradingFee(ctx context.Context, params ClaimParams) (string, error) {
	var resp claimTxResponse
	if err := c.post(ctx, "/partner/claim-partner-trading-fee", params, &resp); err != nil {
		return "", err
	}
	return resp.Transaction, nil
}

// ClaimCreatorTradingFee builds an unsigned creator fee claim transaction
// and returns it base64-encoded.
func (c *APIClient) ClaimCreatorTradingFee(ctx context.Context, params ClaimParams) (string, error) {
	var resp claimTxResponse
	if err := c.post(ctx, "/creator/claim-creator-trading-fee", params, &resp); err != nil {
		return "", err
	}
	return resp.Transaction, nil
}

func (c *APIClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("curve service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrPoolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var svcErr serviceError
		if json.Unmarshal(data, &svcErr) == nil && svcErr.Error != "" {
			return fmt.Errorf("curve service returned %d: %s", resp.StatusCode, svcErr.Error)
		}
		return fmt.Errorf("curve service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode curve service response: %w", err)
	}
	return nil
}

// DecodeTransaction parses a base64-encoded wire transaction.
func DecodeTransaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return tx, nil
}

// EncodeTransaction serializes a transaction to base64 wire format.
func EncodeTransaction(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
