// Package fakeledger is an in-memory stand-in for the remote ledger service,
// implementing its documented HTTP contract. It backs the sync core's
// integration tests and gives the demo CLI something to talk to; it is not
// the production service.
package fakeledger

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Nike682631/robinhood/internal/credentials"
	"github.com/Nike682631/robinhood/internal/ledger"
	appvalidator "github.com/Nike682631/robinhood/internal/validator"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

// Server serves the fake ledger API.
type Server struct {
	store  *Store
	secret []byte
	logger *zap.SugaredLogger
	engine *gin.Engine
}

// NewServer creates a fake ledger server verifying bearer tokens signed with
// the given secret.
func NewServer(store *Store, secret string, logger *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	appvalidator.RegisterBinding()

	s := &Server{
		store:  store,
		secret: []byte(secret),
		logger: logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/api/query", s.queryQuote)

	authed := engine.Group("/api", s.authRequired())
	authed.GET("/portfolio", s.getPortfolio)
	authed.GET("/transactions", s.getTransactions)
	authed.POST("/trade", s.postTrade)

	s.engine = engine
	return s
}

// Handler exposes the router, for mounting on an httptest server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the given address until the listener fails.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

// authRequired verifies the HS256 bearer token and stores the session user
// in the request context.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &credentials.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid || claims.User == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user", claims.User)
		c.Next()
	}
}

func (s *Server) queryQuote(c *gin.Context) {
	ticker := strings.ToUpper(c.Query("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker is required"})
		return
	}

	listing, ok := s.store.Quote(ticker)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found for ticker: " + ticker})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol": ticker,
		"name":   listing.Name,
		"price":  listing.Price.InexactFloat64(),
	})
}

type holdingResponse struct {
	Ticker       string  `json:"ticker"`
	Quantity     int64   `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	TotalValue   float64 `json:"total_value"`
}

func (s *Server) getPortfolio(c *gin.Context) {
	user := c.GetString("user")

	holdings := s.store.Portfolio(user)
	result := make([]holdingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = holdingResponse{
			Ticker:       h.Ticker,
			Quantity:     h.Quantity,
			CurrentPrice: h.CurrentPrice.InexactFloat64(),
			TotalValue:   h.TotalValue.InexactFloat64(),
		}
	}
	c.JSON(http.StatusOK, result)
}

type transactionResponse struct {
	ID        string  `json:"id"`
	Ticker    string  `json:"ticker"`
	Quantity  int64   `json:"quantity"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

func (s *Server) getTransactions(c *gin.Context) {
	user := c.GetString("user")

	history := s.store.Transactions(user)
	result := make([]transactionResponse, len(history))
	for i, t := range history {
		result[i] = transactionResponse{
			ID:        t.ID,
			Ticker:    t.Ticker,
			Quantity:  t.Quantity,
			Action:    string(t.Action),
			Price:     t.Price.InexactFloat64(),
			Timestamp: t.Timestamp.Unix(),
		}
	}
	c.JSON(http.StatusOK, result)
}

type tradeRequest struct {
	Ticker   string `json:"ticker" binding:"required,ticker"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Action   string `json:"action" binding:"required,trade_action"`
}

func (s *Server) postTrade(c *gin.Context) {
	user := c.GetString("user")

	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	ticker := strings.ToUpper(req.Ticker)
	message, err := s.store.Trade(user, ticker, req.Quantity, ledger.Action(req.Action))
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.StatusCode, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Infow("trade executed", "user", user, "ticker", ticker, "quantity", req.Quantity, "action", req.Action)
	c.JSON(http.StatusOK, gin.H{"message": message})
}
