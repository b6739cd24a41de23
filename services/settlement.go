package services

import (
	"errors"
	"fmt"

	"paygate/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("insufficient settlement balance")
	ErrFinancialNotFound   = errors.New("financial record not found")
	ErrDuplicateReference  = errors.New("duplicate ledger reference")
)

const pgUniqueViolation = "23505"

// DebitSettlement deducts entry.TotalDeduction from the merchant's settlement
// balance and creates the ledger entry in the same database transaction. The
// FinancialDetail row is locked FOR UPDATE for the whole read-check-write, so
// concurrent debits for one merchant serialize and can never observe the same
// balance_before. On any error nothing is written.
func DebitSettlement(db *gorm.DB, merchantID uint, entry *models.LedgerEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var fin models.FinancialDetail
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("merchant_id = ?", merchantID).
			First(&fin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFinancialNotFound
		}
		if err != nil {
			return err
		}

		if fin.Settlement.LessThan(entry.TotalDeduction) {
			return ErrInsufficientBalance
		}

		before := fin.Settlement
		after := before.Sub(entry.TotalDeduction)

		if err := tx.Model(&fin).Update("settlement", after).Error; err != nil {
			return err
		}

		entry.MerchantID = merchantID
		entry.BalanceBefore = before
		entry.BalanceAfter = after
		if err := tx.Create(entry).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return ErrDuplicateReference
			}
			return err
		}
		return nil
	})
}

// CreditSettlement adds amount back to the merchant's settlement balance under
// the same lock discipline as DebitSettlement and records a refund ledger
// entry. Used as the compensating action when a payout fails after the debit.
func CreditSettlement(db *gorm.DB, merchantID uint, amount decimal.Decimal, entry *models.LedgerEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var fin models.FinancialDetail
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("merchant_id = ?", merchantID).
			First(&fin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFinancialNotFound
		}
		if err != nil {
			return err
		}

		before := fin.Settlement
		after := before.Add(amount)

		if err := tx.Model(&fin).Update("settlement", after).Error; err != nil {
			return err
		}

		entry.MerchantID = merchantID
		entry.BalanceBefore = before
		entry.BalanceAfter = after
		return tx.Create(entry).Error
	})
}

// ResolvePayout transitions a pending payout to completed or failed. A failed
// payout refunds the full deduction through CreditSettlement inside the same
// transition. Entries already resolved are left untouched, which makes
// gateway callbacks and the reconciler idempotent per entry.
func ResolvePayout(db *gorm.DB, entry *models.LedgerEntry, status, message string) error {
	if entry.Status != models.StatusPending {
		return nil
	}
	if status != models.StatusCompleted && status != models.StatusFailed {
		return fmt.Errorf("invalid payout resolution status: %s", status)
	}

	resolved := false
	err := db.Transaction(func(tx *gorm.DB) error {
		// The status guard arbitrates concurrent resolutions: only the update
		// that still sees pending wins, a stale copy affects zero rows.
		res := tx.Model(&models.LedgerEntry{}).
			Where("id = ? AND status = ?", entry.ID, models.StatusPending).
			Updates(map[string]any{
				"status": status,
				"remark": message,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		resolved = true

		if status == models.StatusCompleted {
			return nil
		}

		refund := &models.LedgerEntry{
			ReferenceID:  entry.ReferenceID + "-R",
			MerchantCode: entry.MerchantCode,
			EntryType:    models.EntryTypeRefund,
			Amount:       entry.TotalDeduction,
			Status:       models.StatusCompleted,
			Remark:       fmt.Sprintf("refund for failed payout %s", entry.ReferenceID),
			CreatedBy:    "system",
		}
		return CreditSettlement(tx, entry.MerchantID, entry.TotalDeduction, refund)
	})
	if err != nil {
		return err
	}
	if resolved {
		entry.Status = status
		entry.Remark = message
	}
	return nil
}
