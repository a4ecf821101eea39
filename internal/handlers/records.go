package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"
)

const (
	defaultRecordLimit = 20
	maxRecordLimit     = 100
)

// ListLaunchRecords returns launch records filtered by search text and
// creator, sorted and limited per the query string.
func ListLaunchRecords(c *gin.Context) {
	query := dbconfig.DB.WithContext(c.Request.Context()).Model(&models.LaunchRecord{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR symbol ILIKE ? OR base_mint ILIKE ?", pattern, pattern, pattern)
	}
	if creator := c.Query("creator"); creator != "" {
		query = query.Where("creator = ?", creator)
	}

	switch c.DefaultQuery("sortBy", "newest") {
	case "oldest":
		query = query.Order("created_at asc")
	case "name":
		query = query.Order("name asc")
	default:
		query = query.Order("created_at desc")
	}

	limit := defaultRecordLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
		if limit > maxRecordLimit {
			limit = maxRecordLimit
		}
	}

	var records []models.LaunchRecord
	if err := query.Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetLaunchRecord returns a single record by base mint address.
func GetLaunchRecord(c *gin.Context) {
	mint := c.Param("mint")

	var record models.LaunchRecord
	err := dbconfig.DB.WithContext(c.Request.Context()).
		Where("base_mint = ?", mint).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}
