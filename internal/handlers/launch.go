package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/launch"
	"launchcontrol/internal/models"
)

// PrepareLaunch accepts the multipart launch form, uploads the assets
// and returns the partially signed transaction set for wallet signing.
func PrepareLaunch(c *gin.Context) {
	params := launch.PrepareParams{
		Name:        c.PostForm("name"),
		Symbol:      c.PostForm("symbol"),
		Description: c.PostForm("description"),
		Creator:     c.PostForm("creator"),
		Website:     c.PostForm("website"),
		Telegram:    c.PostForm("telegram"),
		Twitter:     c.PostForm("twitter"),
	}
	if v := c.PostForm("creatorFeePercentage"); v != "" {
		pct, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "creatorFeePercentage must be an integer"})
			return
		}
		params.CreatorFeePct = pct
	}
	if v := c.PostForm("initialBuyAmount"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil || amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "initialBuyAmount must be a non-negative number"})
			return
		}
		params.InitialBuySOL = amount
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: image"})
		return
	}
	if fileHeader.Size > launch.MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size must be less than 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	params.ImageName = fileHeader.Filename
	params.ImageType = fileHeader.Header.Get("Content-Type")
	params.Image = imageData

	result, err := launcher.Prepare(c.Request.Context(), params)
	if err != nil {
		writeLaunchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitLaunchRequest carries the wallet-signed transactions.
type SubmitLaunchRequest struct {
	ConfigTx string `json:"configTx" binding:"required"`
	PoolTx   string `json:"poolTx" binding:"required"`
	BuyTx    string `json:"buyTx"`
	AssetID  string `json:"assetId"`
	ConfigID string `json:"configId"`
}

// SubmitLaunch sends the signed transactions on-chain in dependency
// order and reports the confirmed signatures.
func SubmitLaunch(c *gin.Context) {
	var req SubmitLaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := launcher.Submit(c.Request.Context(), launch.SubmitParams{
		ConfigTx: req.ConfigTx,
		PoolTx:   req.PoolTx,
		BuyTx:    req.BuyTx,
		AssetID:  req.AssetID,
		ConfigID: req.ConfigID,
	})
	if err != nil {
		writeLaunchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PersistLaunchRequest is the final record of a completed launch.
type PersistLaunchRequest struct {
	Name          string                     `json:"name" binding:"required"`
	Symbol        string                     `json:"symbol" binding:"required"`
	Description   string                     `json:"description"`
	Creator       string                     `json:"creator" binding:"required"`
	ImageURL      string                     `json:"imageUrl"`
	MetadataURL   string                     `json:"metadataUrl"`
	BaseMint      string                     `json:"baseMint" binding:"required"`
	ConfigAddress string                     `json:"configAddress"`
	Website       string                     `json:"website"`
	Telegram      string                     `json:"telegram"`
	Twitter       string                     `json:"twitter"`
	CreatorFeePct int                        `json:"creatorFeePercentage"`
	Transactions  []models.TransactionRecord `json:"transactions"`
}

// PersistLaunch writes the launch record after a successful submission.
func PersistLaunch(c *gin.Context) {
	var req PersistLaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recordID, err := launcher.Persist(c.Request.Context(), launch.PersistParams{
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		Creator:       req.Creator,
		ImageURL:      req.ImageURL,
		MetadataURL:   req.MetadataURL,
		BaseMint:      req.BaseMint,
		ConfigAddress: req.ConfigAddress,
		Website:       req.Website,
		Telegram:      req.Telegram,
		Twitter:       req.Twitter,
		CreatorFeePct: req.CreatorFeePct,
		Transactions:  req.Transactions,
	})
	if err != nil {
		writeLaunchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordId": recordID})
}
