package services

import (
	"testing"

	"paygate/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock
}

func financialRows(merchantID int, settlement string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "merchant_id", "wallet", "settlement", "lien", "rolling_reserve"}).
		AddRow(1, merchantID, "0", settlement, "0", "0")
}

func TestDebitSettlement(t *testing.T) {
	t.Run("debits under row lock and records ledger entry atomically", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "financial_details" WHERE merchant_id = \$1 .* FOR UPDATE`).
			WillReturnRows(financialRows(7, "1000.00"))
		mock.ExpectExec(`UPDATE "financial_details" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		entry := &models.LedgerEntry{
			ReferenceID:    "REF123456789",
			EntryType:      models.EntryTypePayout,
			Amount:         dec("500"),
			TotalDeduction: dec("510.80"),
			Status:         models.StatusPending,
		}

		err := DebitSettlement(db, 7, entry)
		require.NoError(t, err)

		assert.True(t, entry.BalanceBefore.Equal(dec("1000")), "before = %s", entry.BalanceBefore)
		assert.True(t, entry.BalanceAfter.Equal(dec("489.20")), "after = %s", entry.BalanceAfter)
		assert.Equal(t, uint(7), entry.MerchantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance rolls back with no writes", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "financial_details" WHERE merchant_id = \$1 .* FOR UPDATE`).
			WillReturnRows(financialRows(7, "100.00"))
		mock.ExpectRollback()

		entry := &models.LedgerEntry{TotalDeduction: dec("150")}

		err := DebitSettlement(db, 7, entry)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate reference surfaces as ErrDuplicateReference", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "financial_details" WHERE merchant_id = \$1 .* FOR UPDATE`).
			WillReturnRows(financialRows(7, "1000.00"))
		mock.ExpectExec(`UPDATE "financial_details" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
			WillReturnError(&pgconn.PgError{
				Code:           "23505",
				ConstraintName: "idx_ledger_entries_reference_id",
			})
		mock.ExpectRollback()

		entry := &models.LedgerEntry{
			ReferenceID:    "REF123456789",
			EntryType:      models.EntryTypePayout,
			Amount:         dec("500"),
			TotalDeduction: dec("510.80"),
			Status:         models.StatusPending,
		}

		err := DebitSettlement(db, 7, entry)
		assert.ErrorIs(t, err, ErrDuplicateReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing financial record", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "financial_details"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := DebitSettlement(db, 9, &models.LedgerEntry{TotalDeduction: dec("10")})
		assert.ErrorIs(t, err, ErrFinancialNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditSettlement(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "financial_details" WHERE merchant_id = \$1 .* FOR UPDATE`).
		WillReturnRows(financialRows(7, "489.20"))
	mock.ExpectExec(`UPDATE "financial_details" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
	mock.ExpectCommit()

	entry := &models.LedgerEntry{
		ReferenceID: "REF123456789-R",
		EntryType:   models.EntryTypeRefund,
		Amount:      dec("510.80"),
		Status:      models.StatusCompleted,
	}

	err := CreditSettlement(db, 7, dec("510.80"), entry)
	require.NoError(t, err)

	assert.True(t, entry.BalanceBefore.Equal(dec("489.20")))
	assert.True(t, entry.BalanceAfter.Equal(dec("1000")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// statusGuardedUpdate matches the resolution UPDATE only when its WHERE
// clause carries the pending-status predicate alongside the id.
const statusGuardedUpdate = `UPDATE "ledger_entries" SET .* WHERE \(?id = \$\d+ AND status = \$\d+\)?`

func TestResolvePayout(t *testing.T) {
	t.Run("completed updates status under pending guard", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(statusGuardedUpdate).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		entry := &models.LedgerEntry{
			Model:  gorm.Model{ID: 42},
			Status: models.StatusPending,
		}

		err := ResolvePayout(db, entry, models.StatusCompleted, "transfer done")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, entry.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed marks entry failed and refunds the deduction", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(statusGuardedUpdate).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// nested CreditSettlement runs on the outer transaction via savepoint
		mock.ExpectExec(`SAVEPOINT`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "financial_details" WHERE merchant_id = \$1 .* FOR UPDATE`).
			WillReturnRows(financialRows(7, "489.20"))
		mock.ExpectExec(`UPDATE "financial_details" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(44))
		mock.ExpectExec(`RELEASE SAVEPOINT`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		entry := &models.LedgerEntry{
			Model:          gorm.Model{ID: 42},
			ReferenceID:    "REF123456789",
			MerchantID:     7,
			Status:         models.StatusPending,
			TotalDeduction: dec("510.80"),
		}

		err := ResolvePayout(db, entry, models.StatusFailed, "beneficiary account invalid")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, entry.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale pending copy loses to a concurrent resolution", func(t *testing.T) {
		db, mock := newMockDB(t)

		// The row was already resolved by the other caller, so the guarded
		// update hits zero rows and no refund may be credited.
		mock.ExpectBegin()
		mock.ExpectExec(statusGuardedUpdate).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		entry := &models.LedgerEntry{
			Model:          gorm.Model{ID: 42},
			ReferenceID:    "REF123456789",
			MerchantID:     7,
			Status:         models.StatusPending,
			TotalDeduction: dec("510.80"),
		}

		err := ResolvePayout(db, entry, models.StatusFailed, "late reconciler result")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, entry.Status, "stale copy must not claim the transition")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already resolved entries are untouched", func(t *testing.T) {
		db, mock := newMockDB(t)

		entry := &models.LedgerEntry{Status: models.StatusCompleted}
		err := ResolvePayout(db, entry, models.StatusFailed, "late callback")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, entry.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		db, _ := newMockDB(t)

		entry := &models.LedgerEntry{Status: models.StatusPending}
		err := ResolvePayout(db, entry, "processing", "")
		assert.Error(t, err)
	})
}
