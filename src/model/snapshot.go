package model

import (
	"database/sql"
	"time"

	"github.com/username/tradefolio/backend/src/models"
)

// SaveSnapshot inserts or replaces the capital record for one (month, year).
// ClosingCapital is always recomputed server-side from the other fields.
func SaveSnapshot(db *sql.DB, userID int64, s *models.PortfolioSnapshot) error {
	s.ClosingCapital = s.StartingCapital + s.CapitalChanges + s.GrossPL - s.Taxes

	query := `
	INSERT INTO portfolio_snapshots (user_id, month, year, starting_capital, capital_changes, gross_pl, closing_capital, taxes, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, month, year) DO UPDATE SET
		starting_capital = excluded.starting_capital,
		capital_changes = excluded.capital_changes,
		gross_pl = excluded.gross_pl,
		closing_capital = excluded.closing_capital,
		taxes = excluded.taxes,
		updated_at = excluded.updated_at`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		userID, s.Month, s.Year,
		s.StartingCapital, s.CapitalChanges, s.GrossPL, s.ClosingCapital, s.Taxes,
		time.Now(),
	)
	return err
}

func ListSnapshots(db *sql.DB, userID int64) ([]models.PortfolioSnapshot, error) {
	query := `
	SELECT id, month, year, starting_capital, capital_changes, gross_pl, closing_capital, taxes
	FROM portfolio_snapshots
	WHERE user_id = ?
	ORDER BY year ASC, CASE month
		WHEN 'January' THEN 1 WHEN 'February' THEN 2 WHEN 'March' THEN 3
		WHEN 'April' THEN 4 WHEN 'May' THEN 5 WHEN 'June' THEN 6
		WHEN 'July' THEN 7 WHEN 'August' THEN 8 WHEN 'September' THEN 9
		WHEN 'October' THEN 10 WHEN 'November' THEN 11 WHEN 'December' THEN 12
	END ASC`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.PortfolioSnapshot
	for rows.Next() {
		var s models.PortfolioSnapshot
		if err := rows.Scan(
			&s.ID, &s.Month, &s.Year,
			&s.StartingCapital, &s.CapitalChanges, &s.GrossPL, &s.ClosingCapital, &s.Taxes,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func DeleteSnapshot(db *sql.DB, userID int64, id int64) error {
	query := `DELETE FROM portfolio_snapshots WHERE user_id = ? AND id = ?`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(userID, id)
	return err
}

// GetStartingCapital returns the starting capital recorded for a month, or 0
// when no snapshot exists. The engine degrades percentage fields to 0 in
// that case rather than failing.
func GetStartingCapital(db *sql.DB, userID int64, month string, year int) float64 {
	query := `
	SELECT starting_capital FROM portfolio_snapshots
	WHERE user_id = ? AND month = ? AND year = ?`
	var capital float64
	if err := db.QueryRow(query, userID, month, year).Scan(&capital); err != nil {
		return 0
	}
	return capital
}

// GetTaxesByMonth returns the recorded taxes keyed by month and year
// (models.MonthYearKey), so the same month in different years stays
// distinct.
func GetTaxesByMonth(db *sql.DB, userID int64) (map[string]float64, error) {
	query := `SELECT month, year, taxes FROM portfolio_snapshots WHERE user_id = ?`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taxes := make(map[string]float64)
	for rows.Next() {
		var month string
		var year int
		var amount float64
		if err := rows.Scan(&month, &year, &amount); err != nil {
			return nil, err
		}
		taxes[models.MonthYearKey(month, year)] = amount
	}
	return taxes, rows.Err()
}
