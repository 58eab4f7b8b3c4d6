// backend/src/services/journal_service.go
package services

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tradefolio/backend/src/config"
	"github.com/username/tradefolio/backend/src/database"
	"github.com/username/tradefolio/backend/src/logger"
	"github.com/username/tradefolio/backend/src/model"
	"github.com/username/tradefolio/backend/src/models"
	"github.com/username/tradefolio/backend/src/parsers"
	"github.com/username/tradefolio/backend/src/parsers/generic"
	"github.com/username/tradefolio/backend/src/processors"
	"github.com/username/tradefolio/backend/src/security/validation"
)

const (
	ckTrades               = "res_trades_user_%d"
	ckLedger               = "res_ledger_user_%d_cash_%t"
	ckAnalyticsPrefix      = "agg_analytics_user_%d_"
	ckAnalytics            = ckAnalyticsPrefix + "cash_%t_year_%d"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type journalServiceImpl struct {
	cycleDetector processors.CycleDetector
	projector     processors.BasisProjector
	analytics     processors.AnalyticsProcessor
	reportCache   *cache.Cache

	// generation implements latest-wins for concurrent uploads: a rebuild
	// whose generation is no longer current discards its result instead of
	// overwriting a newer one.
	generation atomic.Uint64
	rebuildMu  sync.Mutex
}

func NewJournalService(
	cycleDetector processors.CycleDetector,
	projector processors.BasisProjector,
	analytics processors.AnalyticsProcessor,
	reportCache *cache.Cache,
) JournalService {
	return &journalServiceImpl{
		cycleDetector: cycleDetector,
		projector:     projector,
		analytics:     analytics,
		reportCache:   reportCache,
	}
}

func (s *journalServiceImpl) ProcessUpload(fileReader io.Reader, userID int64, source, filename string, filesize int64, mapping *generic.ColumnMapping) (*UploadResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "userID", userID, "source", source, "filename", filename)

	headers, rows, err := readCSV(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	parser, resolvedSource, err := s.resolveParser(source, headers, mapping)
	if err != nil {
		return nil, err
	}

	txs, err := parser.Parse(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	ambiguousDates := 0
	for i := range txs {
		txs[i].Symbol = validation.SanitizeText(validation.StripUnprintable(txs[i].Symbol))
		if txs[i].AmbiguousDate {
			ambiguousDates++
		}
	}

	result := &UploadResult{
		Source:         resolvedSource,
		ParsedCount:    len(txs),
		AmbiguousDates: ambiguousDates,
	}
	if len(txs) == 0 {
		logger.L.Warn("Upload produced no usable transactions", "userID", userID, "filename", filename)
		return result, nil
	}

	insertedCount, err := s.storeRawTransactions(userID, txs, resolvedSource, filename, filesize)
	if err != nil {
		return nil, err
	}
	result.InsertedCount = insertedCount

	gen := s.generation.Add(1)
	if err := s.rebuildUserTrades(userID, gen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	trades, err := s.GetTrades(userID)
	if err != nil {
		return nil, err
	}
	result.Trades = trades
	result.TradeCount = len(trades)

	logger.L.Info("ProcessUpload END", "userID", userID, "inserted", insertedCount, "trades", len(trades), "duration", time.Since(overallStartTime))
	return result, nil
}

// resolveParser picks a parser from an explicit source tag or from format
// detection over the header row. Detection failure falls back to the
// generic parser when a column mapping was supplied.
func (s *journalServiceImpl) resolveParser(source string, headers []string, mapping *generic.ColumnMapping) (parsers.Parser, string, error) {
	switch source {
	case "", "auto":
		det, err := parsers.DetectFormat(headers)
		if err == nil {
			p, perr := parsers.GetParser(det.Source)
			if perr != nil {
				return nil, "", perr
			}
			logger.L.Info("Format detected", "source", det.Source, "uniqueHits", det.UniqueHits, "requiredHits", det.RequiredHits)
			return p, det.Source, nil
		}
		if mapping != nil {
			return generic.NewParser(*mapping), generic.Source, nil
		}
		return nil, "", fmt.Errorf("%w: provide a column mapping to import this file", ErrUnrecognizedFormat)
	case generic.Source:
		if mapping == nil {
			return nil, "", fmt.Errorf("%w: generic source requires a column mapping", ErrParsingFailed)
		}
		return generic.NewParser(*mapping), generic.Source, nil
	default:
		p, err := parsers.GetParser(source)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		return p, source, nil
	}
}

func (s *journalServiceImpl) storeRawTransactions(userID int64, txs []models.RawTransaction, source, filename string, filesize int64) (int, error) {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO raw_transactions
		(user_id, source, symbol, date, time, side, quantity, price,
		trade_ref, order_ref, exchange, segment, raw_text, ambiguous_date, hash_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	insertedCount := 0
	for _, tx := range txs {
		hashID := transactionHash(userID, tx)
		_, err := stmt.Exec(
			userID, tx.Source, tx.Symbol, tx.Date.Format(time.RFC3339), tx.Time, string(tx.Side),
			tx.Quantity, tx.Price, tx.TradeID, tx.OrderID, tx.Exchange, tx.Segment,
			tx.RawText, tx.AmbiguousDate, hashID,
		)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate transaction on upload", "userID", userID, "hash_id", hashID)
				continue
			}
			return 0, fmt.Errorf("error inserting transaction (symbol: %s): %w", tx.Symbol, err)
		}
		insertedCount++
	}

	if insertedCount > 0 {
		_, err = dbTx.Exec(`
			INSERT INTO uploads_history (user_id, source, filename, file_size, transaction_count)
			VALUES (?, ?, ?, ?, ?)`,
			userID, source, filename, filesize, insertedCount,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to record upload in history: %w", err)
		}
		_, err = dbTx.Exec(`UPDATE users SET upload_count = upload_count + 1 WHERE id = ?`, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to update user upload count: %w", err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transactions: %w", err)
	}
	return insertedCount, nil
}

// rebuildUserTrades regenerates the user's full trade list from the stored
// raw transactions. Host inputs (CMP, SL, TSL) survive the rebuild by
// matching trades on symbol and primary entry date.
func (s *journalServiceImpl) rebuildUserTrades(userID int64, gen uint64) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	txs, err := fetchUserRawTransactions(userID)
	if err != nil {
		return err
	}

	previous, err := fetchUserTrades(userID)
	if err != nil {
		return err
	}
	prevBySig := make(map[string]models.Trade, len(previous))
	for _, t := range previous {
		prevBySig[tradeSignature(t.Symbol, t.EntryDate())] = t
	}

	assembler := processors.NewTradeAssembler(func(month string, year int) float64 {
		return model.GetStartingCapital(database.DB, userID, month, year)
	})
	trades := s.assembleTrades(txs, assembler, prevBySig)

	if s.generation.Load() != gen {
		logger.L.Info("Discarding stale trade rebuild", "userID", userID, "generation", gen)
		return nil
	}

	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM trades WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear previous trades: %w", err)
	}
	stmt, err := dbTx.Prepare(`INSERT INTO trades
		(id, user_id, trade_no, symbol, source, direction, entries, exits,
		cmp, sl, tsl, avg_entry, avg_exit_price, position_size, allocation_pct,
		total_qty, exited_qty, open_qty, realized_pl, unrealized_pl,
		stock_move_pct, holding_days, status, reward_risk, pf_impact_pct,
		cum_pf_pct, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing trade insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		entriesJSON, _ := json.Marshal(t.Entries)
		exitsJSON, _ := json.Marshal(t.Exits)
		_, err := stmt.Exec(
			t.ID, userID, t.TradeNo, t.Symbol, t.Source, string(t.Direction),
			string(entriesJSON), string(exitsJSON),
			t.CMP, t.SL, t.TSL, t.AvgEntry, t.AvgExitPrice, t.PositionSize, t.Allocation,
			t.TotalQty, t.ExitedQty, t.OpenQty, t.RealizedPL, t.UnrealizedPL,
			t.StockMove, t.HoldingDays, string(t.Status), t.RewardRisk, t.PFImpact,
			t.CumPF, t.EntryDate().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("error inserting trade %s: %w", t.ID, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing trades: %w", err)
	}

	s.InvalidateUserCache(userID)
	logger.L.Info("Trade rebuild complete", "userID", userID, "trades", len(trades))
	return nil
}

// assembleTrades runs cycle detection and trade assembly over a raw
// transaction stream and numbers the result chronologically, threading the
// cumulative-PF running sum through. Pure; persistence lives in the caller.
func (s *journalServiceImpl) assembleTrades(txs []models.RawTransaction, assembler processors.TradeAssembler, prevBySig map[string]models.Trade) []models.Trade {
	cycles := s.cycleDetector.Process(txs)

	sort.SliceStable(cycles, func(i, j int) bool {
		return cycleStart(cycles[i]).Before(cycleStart(cycles[j]))
	})

	chunkSize := 0
	if config.Cfg != nil {
		chunkSize = config.Cfg.PipelineChunkSize
	}
	if chunkSize <= 0 {
		chunkSize = len(cycles)
	}

	trades := make([]models.Trade, 0, len(cycles))
	for start := 0; start < len(cycles); start += chunkSize {
		end := start + chunkSize
		if end > len(cycles) {
			end = len(cycles)
		}
		for i, cycle := range cycles[start:end] {
			tradeNo := start + i + 1
			trade := assembler.Assemble(cycle, tradeNo, 0)
			if prev, ok := prevBySig[tradeSignature(trade.Symbol, trade.EntryDate())]; ok {
				trade.CMP = prev.CMP
				trade.SL = prev.SL
				trade.TSL = prev.TSL
				trade = assembler.Recompute(trade)
			}
			trades = append(trades, trade)
		}
		if len(cycles) > chunkSize {
			logger.L.Debug("Trade assembly progress", "done", end, "total", len(cycles))
		}
	}

	cumPF := 0.0
	for i := range trades {
		cumPF += trades[i].PFImpact
		trades[i].CumPF = cumPF
	}
	return trades
}

func (s *journalServiceImpl) GetTrades(userID int64) ([]models.Trade, error) {
	cacheKey := fmt.Sprintf(ckTrades, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.Trade), nil
	}
	trades, err := fetchUserTrades(userID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, trades, cache.NoExpiration)
	return trades, nil
}

func (s *journalServiceImpl) GetLedger(userID int64, useCashBasis bool) ([]models.CashBasisExit, error) {
	cacheKey := fmt.Sprintf(ckLedger, userID, useCashBasis)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.CashBasisExit), nil
	}
	trades, err := s.GetTrades(userID)
	if err != nil {
		return nil, err
	}
	ledger := s.projector.Project(trades, useCashBasis)
	s.reportCache.Set(cacheKey, ledger, DefaultCacheExpiration)
	return ledger, nil
}

func (s *journalServiceImpl) GetAnalytics(userID int64, useCashBasis bool, year int) (*models.PortfolioAnalyticsResult, error) {
	cacheKey := fmt.Sprintf(ckAnalytics, userID, useCashBasis, year)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.PortfolioAnalyticsResult), nil
	}

	trades, err := s.GetTrades(userID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.GetLedger(userID, useCashBasis)
	if err != nil {
		return nil, err
	}
	// Taxes are keyed by month and year, so restricting the ledger to the
	// requested year also restricts the tax attribution.
	taxesByMonth, err := model.GetTaxesByMonth(database.DB, userID)
	if err != nil {
		return nil, err
	}

	trades = tradesInYear(trades, year)
	ledger = ledgerInYear(ledger, year)

	// Open trades have no realized impact yet and stay out of the
	// drawdown series.
	var realized []models.Trade
	for _, t := range trades {
		if t.Status != models.StatusOpen {
			realized = append(realized, t)
		}
	}

	result := s.analytics.Analyze(realized, ledger, taxesByMonth)
	result.OpenPositions, result.OpenExposure = openExposure(trades, s.projector.DedupeForExposure(ledger))
	s.reportCache.Set(cacheKey, &result, DefaultCacheExpiration)
	return &result, nil
}

// tradesInYear restricts the series to trades entered in one calendar year.
// Year 0 means no restriction.
func tradesInYear(trades []models.Trade, year int) []models.Trade {
	if year == 0 {
		return trades
	}
	var out []models.Trade
	for _, t := range trades {
		if t.EntryDate().Year() == year {
			out = append(out, t)
		}
	}
	return out
}

func ledgerInYear(records []models.CashBasisExit, year int) []models.CashBasisExit {
	if year == 0 {
		return records
	}
	var out []models.CashBasisExit
	for _, r := range records {
		if r.Date.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// openExposure sums the entry-priced open quantity over the deduplicated
// ledger, so a trade expanded into several cash-basis exit records still
// counts its open risk once.
func openExposure(trades []models.Trade, deduped []models.CashBasisExit) (int, float64) {
	byID := make(map[string]models.Trade, len(trades))
	for _, t := range trades {
		byID[t.ID] = t
	}
	count := 0
	exposure := 0.0
	for _, r := range deduped {
		t, ok := byID[r.TradeID]
		if !ok || t.OpenQty <= 0 {
			continue
		}
		count++
		exposure += t.OpenQty * t.AvgEntry
	}
	return count, exposure
}

func (s *journalServiceImpl) UpdateTradeInputs(userID int64, tradeID string, input TradeInputs) (*models.Trade, error) {
	trades, err := fetchUserTrades(userID)
	if err != nil {
		return nil, err
	}
	var trade *models.Trade
	for i := range trades {
		if trades[i].ID == tradeID {
			trade = &trades[i]
			break
		}
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}

	if input.CMP != nil {
		trade.CMP = *input.CMP
	}
	if input.SL != nil {
		trade.SL = *input.SL
	}
	if input.TSL != nil {
		trade.TSL = *input.TSL
	}

	assembler := processors.NewTradeAssembler(func(month string, year int) float64 {
		return model.GetStartingCapital(database.DB, userID, month, year)
	})
	updated := assembler.Recompute(*trade)

	_, err = database.DB.Exec(`
		UPDATE trades
		SET cmp = ?, sl = ?, tsl = ?, avg_entry = ?, avg_exit_price = ?,
			position_size = ?, allocation_pct = ?, realized_pl = ?,
			unrealized_pl = ?, stock_move_pct = ?, holding_days = ?,
			status = ?, reward_risk = ?, pf_impact_pct = ?
		WHERE user_id = ? AND id = ?`,
		updated.CMP, updated.SL, updated.TSL, updated.AvgEntry, updated.AvgExitPrice,
		updated.PositionSize, updated.Allocation, updated.RealizedPL,
		updated.UnrealizedPL, updated.StockMove, updated.HoldingDays,
		string(updated.Status), updated.RewardRisk, updated.PFImpact,
		userID, tradeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update trade inputs: %w", err)
	}

	s.InvalidateUserCache(userID)
	return &updated, nil
}

func (s *journalServiceImpl) RecalculateTrades(userID int64) error {
	gen := s.generation.Add(1)
	return s.rebuildUserTrades(userID, gen)
}

func (s *journalServiceImpl) ListUploads(userID int64) ([]UploadRecord, error) {
	rows, err := database.DB.Query(`
		SELECT id, source, filename, file_size, transaction_count, created_at
		FROM uploads_history
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []UploadRecord
	for rows.Next() {
		var u UploadRecord
		if err := rows.Scan(&u.ID, &u.Source, &u.Filename, &u.FileSize, &u.TransactionCount, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

func (s *journalServiceImpl) DeleteAllTrades(userID int64) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, table := range []string{"raw_transactions", "trades", "uploads_history"} {
		if _, err := dbTx.Exec(fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table), userID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := dbTx.Exec(`UPDATE users SET upload_count = 0 WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("failed to reset upload count: %w", err)
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing delete: %w", err)
	}

	s.InvalidateUserCache(userID)
	logger.L.Info("Deleted all journal data", "userID", userID)
	return nil
}

func (s *journalServiceImpl) InvalidateUserCache(userID int64) {
	keysToDelete := []string{
		fmt.Sprintf(ckTrades, userID),
		fmt.Sprintf(ckLedger, userID, true),
		fmt.Sprintf(ckLedger, userID, false),
	}
	for _, key := range keysToDelete {
		s.reportCache.Delete(key)
	}
	// Analytics entries are keyed per year as well; sweep them by prefix.
	analyticsPrefix := fmt.Sprintf(ckAnalyticsPrefix, userID)
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, analyticsPrefix) {
			s.reportCache.Delete(key)
		}
	}
}

// readCSV consumes the upload into a header row plus data rows. Ragged rows
// are tolerated; the parsers guard every cell access.
func readCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	for i, record := range records {
		if !rowIsEmpty(record) {
			return record, records[i+1:], nil
		}
	}
	return nil, nil, fmt.Errorf("file contains no data rows")
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cycleStart(c models.TradeCycle) time.Time {
	if len(c.Transactions) == 0 {
		return time.Time{}
	}
	return c.Transactions[0].Timestamp()
}

func tradeSignature(symbol string, entryDate time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, entryDate.Unix())
}

func transactionHash(userID int64, tx models.RawTransaction) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s|%g|%g|%s|%s",
		userID, tx.Source, tx.Symbol, tx.Date.Format(time.RFC3339), tx.Time,
		tx.Side, tx.Quantity, tx.Price, tx.TradeID, tx.OrderID)
	return hex.EncodeToString(h.Sum(nil))
}

func fetchUserRawTransactions(userID int64) ([]models.RawTransaction, error) {
	logger.L.Debug("Fetching raw transactions from DB", "userID", userID)
	query := `
		SELECT source, symbol, date, time, side, quantity, price,
		       trade_ref, order_ref, exchange, segment, raw_text, ambiguous_date
		FROM raw_transactions
		WHERE user_id = ?
		ORDER BY date ASC, id ASC`
	rows, err := database.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var transactions []models.RawTransaction
	for rows.Next() {
		var tx models.RawTransaction
		var dateStr, side string
		scanErr := rows.Scan(
			&tx.Source, &tx.Symbol, &dateStr, &tx.Time, &side, &tx.Quantity, &tx.Price,
			&tx.TradeID, &tx.OrderID, &tx.Exchange, &tx.Segment, &tx.RawText, &tx.AmbiguousDate,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning transaction row for userID %d: %w", userID, scanErr)
		}
		tx.Side = models.Side(side)
		if tx.Date, err = time.Parse(time.RFC3339, dateStr); err != nil {
			return nil, fmt.Errorf("error parsing stored date %q for userID %d: %w", dateStr, userID, err)
		}
		transactions = append(transactions, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction rows for userID %d: %w", userID, err)
	}
	return transactions, nil
}

func fetchUserTrades(userID int64) ([]models.Trade, error) {
	query := `
		SELECT id, trade_no, symbol, source, direction, entries, exits,
		       cmp, sl, tsl, avg_entry, avg_exit_price, position_size, allocation_pct,
		       total_qty, exited_qty, open_qty, realized_pl, unrealized_pl,
		       stock_move_pct, holding_days, status, reward_risk, pf_impact_pct, cum_pf_pct
		FROM trades
		WHERE user_id = ?
		ORDER BY trade_no ASC`
	rows, err := database.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying trades for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var direction, status, entriesJSON, exitsJSON string
		scanErr := rows.Scan(
			&t.ID, &t.TradeNo, &t.Symbol, &t.Source, &direction, &entriesJSON, &exitsJSON,
			&t.CMP, &t.SL, &t.TSL, &t.AvgEntry, &t.AvgExitPrice, &t.PositionSize, &t.Allocation,
			&t.TotalQty, &t.ExitedQty, &t.OpenQty, &t.RealizedPL, &t.UnrealizedPL,
			&t.StockMove, &t.HoldingDays, &status, &t.RewardRisk, &t.PFImpact, &t.CumPF,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning trade row for userID %d: %w", userID, scanErr)
		}
		t.Direction = models.Side(direction)
		t.Status = models.PositionStatus(status)
		if err := json.Unmarshal([]byte(entriesJSON), &t.Entries); err != nil {
			return nil, fmt.Errorf("error decoding entries for trade %s: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(exitsJSON), &t.Exits); err != nil {
			return nil, fmt.Errorf("error decoding exits for trade %s: %w", t.ID, err)
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over trade rows for userID %d: %w", userID, err)
	}
	return trades, nil
}
