package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ChainClient is the slice of ledger behavior the orchestrator needs:
// fetch a reference blockhash, and submit a transaction synchronously to
// a confirmed state.
type ChainClient interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// RPCChain implements ChainClient against a Solana RPC node. Confirmation
// is polled via signature statuses; there is no websocket dependency.
type RPCChain struct {
	client         *rpc.Client
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// NewRPCChain creates a chain client for the given RPC endpoint.
func NewRPCChain(endpoint string) *RPCChain {
	return &RPCChain{
		client:         rpc.New(endpoint),
		confirmTimeout: 60 * time.Second,
		pollInterval:   500 * time.Millisecond,
	}
}

func (c *RPCChain) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

// SendAndConfirm submits the transaction and blocks until the network
// acknowledges it as confirmed or finalized.
func (c *RPCChain) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (c *RPCChain) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(c.confirmTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		res, err := c.client.GetSignatureStatuses(ctx, true, sig)
		if err == nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				errJSON, _ := json.Marshal(status.Err)
				return fmt.Errorf("transaction %s failed: %s", sig, string(errJSON))
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("transaction %s not confirmed within %s", sig, c.confirmTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
