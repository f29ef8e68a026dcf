package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	vterrors "virtual-trader/internal/errors"
	"virtual-trader/internal/models"
	"virtual-trader/internal/security"
	"virtual-trader/internal/store"
	"virtual-trader/internal/trading"
)

type tradeRequest struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Action   string  `json:"action"`
	Quantity float64 `json:"quantity"`
}

type analyzeRequest struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
}

func parseLimit(v string, def, min, max int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}

func (s *Server) getPortfolio(c *gin.Context) {
	portfolio, err := s.service.Portfolio(c.Request.Context(), s.userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

func (s *Server) postTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, vterrors.NewValidationError("body", "", "invalid JSON body"))
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if err := security.ValidateSymbol(symbol); err != nil {
		s.fail(c, err)
		return
	}
	assetType := models.AssetType(req.Type)
	if !assetType.Valid() {
		s.fail(c, vterrors.NewValidationError("type", req.Type, "must be 'stock' or 'crypto'"))
		return
	}
	action := models.TradeAction(req.Action)
	if !action.Valid() {
		s.fail(c, vterrors.NewValidationError("action", req.Action, "must be 'buy' or 'sell'"))
		return
	}
	if err := security.ValidateUserID(s.userID(c)); err != nil {
		s.fail(c, err)
		return
	}

	trade, err := s.service.ExecuteTrade(c.Request.Context(), s.userID(c), trading.TradeRequest{
		Symbol:   symbol,
		Name:     security.SanitizeName(req.Name),
		Type:     assetType,
		Action:   action,
		Quantity: decimal.NewFromFloat(req.Quantity),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trade": trade})
}

func (s *Server) postReset(c *gin.Context) {
	account, err := s.service.Reset(c.Request.Context(), s.userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "account": account})
}

func (s *Server) getHotStocks(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 10, 1, 50)
	stocks, err := s.service.HotStocks(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}

func (s *Server) getHotCryptos(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 10, 1, 50)
	cryptos, err := s.service.HotCryptos(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cryptos": cryptos})
}

func (s *Server) postAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, vterrors.NewValidationError("body", "", "invalid JSON body"))
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	if err := security.ValidateSymbol(symbol); err != nil {
		s.fail(c, err)
		return
	}
	assetType := models.AssetType(req.Type)
	if !assetType.Valid() {
		s.fail(c, vterrors.NewValidationError("type", req.Type, "must be 'stock' or 'crypto'"))
		return
	}

	result, err := s.service.Analyze(c.Request.Context(), assetType, symbol)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": result})
}

func (s *Server) getTrades(c *gin.Context) {
	filter := store.TradeFilter{
		Symbol: strings.TrimSpace(c.Query("symbol")),
		Action: models.TradeAction(strings.TrimSpace(c.Query("action"))),
		Limit:  parseLimit(c.Query("limit"), 100, 1, 1000),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.fail(c, vterrors.NewValidationError("from", raw, "must be YYYY-MM-DD"))
			return
		}
		filter.StartDate = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.fail(c, vterrors.NewValidationError("to", raw, "must be YYYY-MM-DD"))
			return
		}
		filter.EndDate = t.Add(24*time.Hour - time.Nanosecond)
	}

	trades, err := s.service.TradeHistory(c.Request.Context(), s.userID(c), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}
