// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/parsers"
	"github.com/username/tradefolio/backend/src/parsers/generic"
)

// UploadResult summarizes one ProcessUpload call plus the rebuilt journal.
type UploadResult struct {
	Source         string         `json:"source"`
	ParsedCount    int            `json:"parsed_count"`
	InsertedCount  int            `json:"inserted_count"`
	AmbiguousDates int            `json:"ambiguous_dates"`
	TradeCount     int            `json:"trade_count"`
	Trades         []models.Trade `json:"trades"`
}

// TradeInputs carries the host-editable fields of a trade. Nil means
// "leave unchanged".
type TradeInputs struct {
	CMP *float64 `json:"cmp,omitempty"`
	SL  *float64 `json:"sl,omitempty"`
	TSL *float64 `json:"tsl,omitempty"`
}

// UploadRecord is one row of the uploads history.
type UploadRecord struct {
	ID               int64  `json:"id"`
	Source           string `json:"source"`
	Filename         string `json:"filename"`
	FileSize         int64  `json:"file_size"`
	TransactionCount int    `json:"transaction_count"`
	CreatedAt        string `json:"created_at"`
}

// Define common service errors
var (
	ErrParsingFailed      = errors.New("csv parsing failed")
	ErrProcessingFailed   = errors.New("trade processing failed")
	ErrTradeNotFound      = errors.New("trade not found")
	ErrUnrecognizedFormat = parsers.ErrUnrecognizedFormat
)

// JournalService is the core trade-journal pipeline: broker CSV in,
// assembled trades, ledgers and analytics out.
type JournalService interface {
	// ProcessUpload parses a broker CSV, stores the new transactions and
	// rebuilds the user's trades. Pass source "auto" (or "") to use format
	// detection; mapping is required only for the generic source.
	ProcessUpload(fileReader io.Reader, userID int64, source, filename string, filesize int64, mapping *generic.ColumnMapping) (*UploadResult, error)

	GetTrades(userID int64) ([]models.Trade, error)
	GetLedger(userID int64, useCashBasis bool) ([]models.CashBasisExit, error)

	// GetAnalytics analyzes the journal for one accounting basis. A nonzero
	// year restricts the trade series, the ledger and the tax attribution to
	// that calendar year; 0 analyzes the full journal.
	GetAnalytics(userID int64, useCashBasis bool, year int) (*models.PortfolioAnalyticsResult, error)

	// UpdateTradeInputs applies host-edited CMP/SL/TSL values and recomputes
	// every derived field of the trade.
	UpdateTradeInputs(userID int64, tradeID string, input TradeInputs) (*models.Trade, error)

	// RecalculateTrades rebuilds every trade's derived fields, e.g. after
	// the portfolio snapshots that drive the percentage fields change.
	RecalculateTrades(userID int64) error

	ListUploads(userID int64) ([]UploadRecord, error)
	DeleteAllTrades(userID int64) error
	InvalidateUserCache(userID int64)
}
