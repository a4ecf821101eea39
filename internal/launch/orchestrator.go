package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/config"
	"launchcontrol/pkg/dbc"
	keymgr "launchcontrol/pkg/solana"
)

// MaxImageSize is the upper bound for uploaded token images (5 MiB).
const MaxImageSize = 5 * 1024 * 1024

// Transaction type tags used in submit results and persisted records.
const (
	TxTypeCreateConfig = "createConfig"
	TxTypeCreatePool   = "createPool"
	TxTypeSwapBuy      = "swapBuy"
)

// Storage is the blob store used for token images and metadata documents.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// CurveBuilder is the slice of the curve service the orchestrator uses.
type CurveBuilder interface {
	CreateConfigAndPoolWithFirstBuy(ctx context.Context, params dbc.LaunchParams) (*dbc.LaunchTransactions, error)
}

// EventPublisher pushes launch notifications to the worker queue.
type EventPublisher interface {
	Publish(queueName string, message interface{}) error
}

// Broadcaster pushes persisted records to connected stream clients.
type Broadcaster interface {
	BroadcastLaunch(record *models.LaunchRecord)
}

// LaunchEvent is the message published after a record is persisted.
type LaunchEvent struct {
	Action   string `json:"action"`
	BaseMint string `json:"baseMint"`
}

// Orchestrator drives the three launch stages. Each stage is stateless
// and externally callable; nothing is persisted before Persist.
type Orchestrator struct {
	DB         *gorm.DB
	Storage    Storage
	Builder    CurveBuilder
	Chain      ChainClient
	Keys       *keymgr.KeyManager
	FeeClaimer solana.PublicKey

	// Optional; nil disables the corresponding notification.
	Events EventPublisher
	Stream Broadcaster
}

// PrepareParams is the validated-at-entry input of the prepare stage.
type PrepareParams struct {
	Name          string
	Symbol        string
	Description   string
	Creator       string
	ImageName     string
	ImageType     string
	Image         []byte
	Website       string
	Telegram      string
	Twitter       string
	CreatorFeePct int
	InitialBuySOL float64
}

// LaunchMetadata is the document uploaded next to the image and linked
// from the on-chain token.
type LaunchMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Website     string `json:"website,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
}

// PreparedTransactions carries the partially signed payloads, base64.
type PreparedTransactions struct {
	ConfigTx string `json:"configTx"`
	PoolTx   string `json:"poolTx"`
	BuyTx    string `json:"buyTx,omitempty"`
}

// PrepareResult is handed back to the browser for wallet signing.
type PrepareResult struct {
	AssetID      string               `json:"assetId"`
	ConfigID     string               `json:"configId"`
	ImageURL     string               `json:"imageUrl"`
	MetadataURL  string               `json:"metadataUrl"`
	Metadata     LaunchMetadata       `json:"metadata"`
	Transactions PreparedTransactions `json:"transactions"`
}

// Prepare validates the launch input, uploads the image and metadata
// document, asks the curve service for the unsigned transaction set,
// stamps it with a fresh blockhash and partially signs it with the
// ephemeral config and mint authorities.
func (o *Orchestrator) Prepare(ctx context.Context, params PrepareParams) (*PrepareResult, error) {
	if params.Name == "" || params.Symbol == "" || params.Creator == "" {
		return nil, validationErrorf("missing required fields: name, symbol, creator")
	}
	if len(params.Image) == 0 {
		return nil, validationErrorf("missing required field: image")
	}

	contentType := params.ImageType
	if contentType == "" {
		contentType = http.DetectContentType(params.Image)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationErrorf("file must be an image")
	}
	if len(params.Image) > MaxImageSize {
		return nil, validationErrorf("file size must be less than 5MB")
	}

	creator, err := solana.PublicKeyFromBase58(params.Creator)
	if err != nil {
		return nil, validationErrorf("invalid creator address: %s", params.Creator)
	}

	// Blob uploads. Both must succeed before any transaction is built.
	timestamp := time.Now().UnixMilli()
	ext := strings.TrimPrefix(filepath.Ext(params.ImageName), ".")
	if ext == "" {
		ext = "png"
	}
	imageKey := fmt.Sprintf("tokens/%s-%d.%s", strings.ToLower(params.Symbol), timestamp, ext)

	imageURL, err := o.Storage.Upload(ctx, imageKey, contentType, params.Image)
	if err != nil {
		return nil, &UploadError{Op: "image", Err: err}
	}
	log.Infof("Image uploaded: %s", imageURL)

	metadata := LaunchMetadata{
		Name:        params.Name,
		Symbol:      params.Symbol,
		Description: params.Description,
		Image:       imageURL,
		Website:     params.Website,
		Telegram:    params.Telegram,
		Twitter:     params.Twitter,
	}
	metadataBody, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, &UploadError{Op: "metadata", Err: err}
	}
	metadataKey := fmt.Sprintf("metadata/%s-%d.json", strings.ToLower(params.Symbol), timestamp)

	metadataURL, err := o.Storage.Upload(ctx, metadataKey, "application/json", metadataBody)
	if err != nil {
		return nil, &UploadError{Op: "metadata", Err: err}
	}
	log.Infof("Metadata uploaded: %s", metadataURL)

	// Fresh authorities for this launch. The config key signs the config
	// creation, the mint key signs the pool creation; both are discarded
	// after this call returns.
	mintKey, err := o.Keys.GenerateEphemeralKey()
	if err != nil {
		return nil, &PreparationError{Err: err}
	}
	configKey, err := o.Keys.GenerateEphemeralKey()
	if err != nil {
		return nil, &PreparationError{Err: err}
	}

	launchParams := dbc.LaunchParams{
		CurveConfig:      dbc.BuildCurveConfig(params.CreatorFeePct),
		Payer:            creator.String(),
		Config:           configKey.PublicKey.String(),
		FeeClaimer:       o.FeeClaimer.String(),
		LeftoverReceiver: o.FeeClaimer.String(),
		QuoteMint:        dbc.WSOLMint,
		PreCreatePool: dbc.PreCreatePoolParams{
			BaseMint:    mintKey.PublicKey.String(),
			Name:        params.Name,
			Symbol:      params.Symbol,
			URI:         metadataURL,
			PoolCreator: creator.String(),
		},
	}
	if params.InitialBuySOL > 0 {
		launchParams.FirstBuy = &dbc.FirstBuyParams{
			Buyer:             creator.String(),
			BuyAmountLamports: uint64(params.InitialBuySOL * 1e9),
			MinimumAmountOut:  1,
		}
	}

	txs, err := o.Builder.CreateConfigAndPoolWithFirstBuy(ctx, launchParams)
	if err != nil {
		return nil, &PreparationError{Err: err}
	}

	blockhash, err := o.Chain.LatestBlockhash(ctx)
	if err != nil {
		return nil, &PreparationError{Err: err}
	}

	stamped := []*solana.Transaction{txs.CreateConfigTx, txs.CreatePoolTx}
	if txs.SwapBuyTx != nil {
		stamped = append(stamped, txs.SwapBuyTx)
	}
	for _, tx := range stamped {
		tx.Message.RecentBlockhash = blockhash
		if len(tx.Message.AccountKeys) == 0 || !tx.Message.AccountKeys[0].Equals(creator) {
			return nil, &PreparationError{Err: fmt.Errorf("fee payer is not the creator")}
		}
	}

	// Config creation needs the config authority, pool creation needs the
	// mint authority. The buy transaction carries only user signers.
	if _, err := txs.CreateConfigTx.PartialSign(signerFor(configKey)); err != nil {
		return nil, &PreparationError{Err: fmt.Errorf("failed to sign config transaction: %w", err)}
	}
	if _, err := txs.CreatePoolTx.PartialSign(signerFor(mintKey)); err != nil {
		return nil, &PreparationError{Err: fmt.Errorf("failed to sign pool transaction: %w", err)}
	}

	result := &PrepareResult{
		AssetID:     mintKey.PublicKey.String(),
		ConfigID:    configKey.PublicKey.String(),
		ImageURL:    imageURL,
		MetadataURL: metadataURL,
		Metadata:    metadata,
	}
	if result.Transactions.ConfigTx, err = dbc.EncodeTransaction(txs.CreateConfigTx); err != nil {
		return nil, &PreparationError{Err: err}
	}
	if result.Transactions.PoolTx, err = dbc.EncodeTransaction(txs.CreatePoolTx); err != nil {
		return nil, &PreparationError{Err: err}
	}
	if txs.SwapBuyTx != nil {
		if result.Transactions.BuyTx, err = dbc.EncodeTransaction(txs.SwapBuyTx); err != nil {
			return nil, &PreparationError{Err: err}
		}
	}

	log.Infof("Prepared launch %s (%s): config=%s buy=%v", params.Symbol, result.AssetID, result.ConfigID, txs.SwapBuyTx != nil)
	return result, nil
}

func signerFor(key *keymgr.EphemeralKey) func(solana.PublicKey) *solana.PrivateKey {
	return func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(key.PublicKey) {
			return &key.PrivateKey
		}
		return nil
	}
}

// SubmitParams carries the fully signed payloads back from the wallet.
type SubmitParams struct {
	ConfigTx string
	PoolTx   string
	BuyTx    string
	AssetID  string
	ConfigID string
}

// SubmitResult lists every transaction confirmed on-chain, in order.
type SubmitResult struct {
	Transactions []models.TransactionRecord `json:"transactions"`
	AssetID      string                     `json:"assetId"`
	ConfigID     string                     `json:"configId"`
}

// Submit sends the signed transactions strictly in dependency order:
// the pool creation is not sent until the config creation is confirmed,
// and the buy is not sent until the pool creation is confirmed. Confirmed
// transactions are never rolled back; a SubmissionError reports how far
// the sequence got.
func (o *Orchestrator) Submit(ctx context.Context, params SubmitParams) (*SubmitResult, error) {
	if params.ConfigTx == "" || params.PoolTx == "" {
		return nil, validationErrorf("missing required transactions")
	}

	configTx, err := dbc.DecodeTransaction(params.ConfigTx)
	if err != nil {
		return nil, validationErrorf("invalid config transaction: %v", err)
	}
	poolTx, err := dbc.DecodeTransaction(params.PoolTx)
	if err != nil {
		return nil, validationErrorf("invalid pool transaction: %v", err)
	}
	var buyTx *solana.Transaction
	if params.BuyTx != "" {
		if buyTx, err = dbc.DecodeTransaction(params.BuyTx); err != nil {
			return nil, validationErrorf("invalid buy transaction: %v", err)
		}
	}

	sequence := []struct {
		txType string
		tx     *solana.Transaction
	}{
		{TxTypeCreateConfig, configTx},
		{TxTypeCreatePool, poolTx},
	}
	if buyTx != nil {
		sequence = append(sequence, struct {
			txType string
			tx     *solana.Transaction
		}{TxTypeSwapBuy, buyTx})
	}

	submitted := []models.TransactionRecord{}
	for _, step := range sequence {
		log.Infof("Submitting %s transaction...", step.txType)
		sig, err := o.Chain.SendAndConfirm(ctx, step.tx)
		if err != nil {
			return nil, &SubmissionError{Stage: step.txType, Submitted: submitted, Err: err}
		}
		submitted = append(submitted, models.TransactionRecord{Type: step.txType, TxID: sig.String()})
		log.Infof("%s transaction confirmed: %s", step.txType, sig)
	}

	return &SubmitResult{
		Transactions: submitted,
		AssetID:      params.AssetID,
		ConfigID:     params.ConfigID,
	}, nil
}

// PersistParams is the full record written after submission succeeds.
type PersistParams struct {
	Name          string
	Symbol        string
	Description   string
	Creator       string
	ImageURL      string
	MetadataURL   string
	BaseMint      string
	ConfigAddress string
	Website       string
	Telegram      string
	Twitter       string
	CreatorFeePct int
	Transactions  []models.TransactionRecord
}

// newLaunchRecord builds the fresh record for a just-launched token.
// Price and fee fields start at zero and their timestamps start null
// until the sync job runs.
func newLaunchRecord(params PersistParams) (*models.LaunchRecord, error) {
	if params.Name == "" || params.Symbol == "" || params.Creator == "" || params.BaseMint == "" {
		return nil, validationErrorf("missing required fields: name, symbol, creator, baseMint")
	}

	record := models.LaunchRecord{
		BaseMint:      params.BaseMint,
		Name:          params.Name,
		Symbol:        params.Symbol,
		Description:   params.Description,
		Creator:       params.Creator,
		ImageURL:      params.ImageURL,
		MetadataURL:   params.MetadataURL,
		ConfigAddress: params.ConfigAddress,
		Status:        "created",
		CreatorFeePct: dbc.ClampCreatorFeeShare(params.CreatorFeePct),
		Website:       params.Website,
		Telegram:      params.Telegram,
		Twitter:       params.Twitter,
		Transactions:  params.Transactions,
	}
	if record.Transactions == nil {
		record.Transactions = models.TransactionList{}
	}
	return &record, nil
}

// Persist writes the launch record. This is the only point at which the
// launch becomes visible to readers.
func (o *Orchestrator) Persist(ctx context.Context, params PersistParams) (uint, error) {
	record, err := newLaunchRecord(params)
	if err != nil {
		return 0, err
	}

	if err := o.DB.WithContext(ctx).Create(record).Error; err != nil {
		return 0, &PersistenceError{Err: err}
	}
	log.Infof("Launch record saved: id=%d mint=%s", record.ID, record.BaseMint)

	// Notifications are best effort; the record is already durable.
	if o.Events != nil {
		event := LaunchEvent{Action: "token_launched", BaseMint: record.BaseMint}
		if err := o.Events.Publish(config.LaunchEventsQueue, event); err != nil {
			log.Warnf("Failed to publish launch event for %s: %v", record.BaseMint, err)
		}
	}
	if o.Stream != nil {
		o.Stream.BroadcastLaunch(record)
	}

	return record.ID, nil
}
