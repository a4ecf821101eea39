package handlers

import (
	"errors"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"launchcontrol/pkg/dbc"
)

// GetFees serves fee accounting in one of three modes, selected by which
// query parameter is present: configAddress, poolAddress or
// creatorAddress. Exactly one must be given.
func GetFees(c *gin.Context) {
	configAddress := c.Query("configAddress")
	poolAddress := c.Query("poolAddress")
	creatorAddress := c.Query("creatorAddress")

	modes := 0
	for _, v := range []string{configAddress, poolAddress, creatorAddress} {
		if v != "" {
			modes++
		}
	}
	if modes != 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "exactly one of configAddress, poolAddress or creatorAddress is required",
		})
		return
	}

	ctx := c.Request.Context()
	switch {
	case poolAddress != "":
		if _, err := solana.PublicKeyFromBase58(poolAddress); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poolAddress"})
			return
		}
		metrics, err := curve.GetPoolFeeMetrics(ctx, poolAddress)
		if err != nil {
			writeFeeError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)

	case configAddress != "":
		fees, err := curve.GetPoolsFeesByConfig(ctx, configAddress)
		if err != nil {
			writeFeeError(c, err)
			return
		}
		c.JSON(http.StatusOK, fees)

	default:
		fees, err := curve.GetPoolsFeesByCreator(ctx, creatorAddress)
		if err != nil {
			writeFeeError(c, err)
			return
		}
		c.JSON(http.StatusOK, fees)
	}
}

// ClaimFeeRequest parameterizes a fee claim. Pool is always required;
// Creator is required for creator claims only.
type ClaimFeeRequest struct {
	Pool           string `json:"pool" binding:"required"`
	Creator        string `json:"creator"`
	Payer          string `json:"payer"`
	MaxBaseAmount  string `json:"maxBaseAmount"`
	MaxQuoteAmount string `json:"maxQuoteAmount"`
	Receiver       string `json:"receiver"`
	TempWSolAcc    string `json:"tempWSolAcc"`
}

// ClaimPartnerFee builds an unsigned partner fee claim transaction. The
// fee claimer is always the platform wallet.
func ClaimPartnerFee(c *gin.Context) {
	var req ClaimFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := solana.PublicKeyFromBase58(req.Pool); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pool address"})
		return
	}

	params := dbc.ClaimParams{
		Pool:           req.Pool,
		FeeClaimer:     launcher.FeeClaimer.String(),
		Payer:          req.Payer,
		MaxBaseAmount:  req.MaxBaseAmount,
		MaxQuoteAmount: req.MaxQuoteAmount,
		Receiver:       req.Receiver,
		TempWSolAcc:    req.TempWSolAcc,
	}
	if params.Payer == "" {
		params.Payer = params.FeeClaimer
	}

	tx, err := curve.ClaimPartnerTradingFee(c.Request.Context(), params)
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// ClaimCreatorFee builds an unsigned creator fee claim transaction.
func ClaimCreatorFee(c *gin.Context) {
	var req ClaimFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := solana.PublicKeyFromBase58(req.Pool); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pool address"})
		return
	}
	if _, err := solana.PublicKeyFromBase58(req.Creator); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creator address"})
		return
	}

	params := dbc.ClaimParams{
		Pool:           req.Pool,
		Creator:        req.Creator,
		Payer:          req.Payer,
		MaxBaseAmount:  req.MaxBaseAmount,
		MaxQuoteAmount: req.MaxQuoteAmount,
		Receiver:       req.Receiver,
		TempWSolAcc:    req.TempWSolAcc,
	}
	if params.Payer == "" {
		params.Payer = req.Creator
	}

	tx, err := curve.ClaimCreatorTradingFee(c.Request.Context(), params)
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

func writeFeeError(c *gin.Context, err error) {
	if errors.Is(err, dbc.ErrPoolNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pool account does not exist"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to query curve service",
		"details": err.Error(),
	})
}
