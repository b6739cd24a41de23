package services

import (
	"testing"

	"paygate/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCalculateCharges(t *testing.T) {
	t.Run("percentage bracket with platform charge", func(t *testing.T) {
		bracket := &models.ChargeBracket{
			ChargeType: models.ChargeTypePercentage,
			AdminRate:  dec("2"),
			AgentRate:  dec("1.5"),
		}
		platform := &models.PlatformCharge{Charge: dec("5"), GST: dec("3")}

		b := CalculateCharges(bracket, dec("500"), platform)

		assert.True(t, b.AdminCharge.Equal(dec("10")), "admin charge = %s", b.AdminCharge)
		assert.True(t, b.AgentCharge.Equal(dec("7.5")), "agent charge = %s", b.AgentCharge)
		assert.True(t, b.PlatformFee.Equal(dec("0.5")), "platform fee = %s", b.PlatformFee)
		assert.True(t, b.GSTAmount.Equal(dec("0.3")), "gst = %s", b.GSTAmount)
		assert.True(t, b.TotalDeduction.Equal(dec("510.8")), "total = %s", b.TotalDeduction)
	})

	t.Run("fixed bracket", func(t *testing.T) {
		bracket := &models.ChargeBracket{
			ChargeType: models.ChargeTypeFixed,
			AdminRate:  dec("25"),
			AgentRate:  dec("10"),
		}

		b := CalculateCharges(bracket, dec("5000"), nil)

		assert.True(t, b.AdminCharge.Equal(dec("25")))
		assert.True(t, b.AgentCharge.Equal(dec("10")))
		assert.True(t, b.PlatformFee.IsZero())
		assert.True(t, b.GSTAmount.IsZero())
		assert.True(t, b.TotalDeduction.Equal(dec("5025")))
	})

	t.Run("no active platform charge contributes zero", func(t *testing.T) {
		bracket := &models.ChargeBracket{
			ChargeType: models.ChargeTypePercentage,
			AdminRate:  dec("2"),
		}

		b := CalculateCharges(bracket, dec("500"), nil)

		assert.True(t, b.PlatformFee.IsZero())
		assert.True(t, b.GSTAmount.IsZero())
		assert.True(t, b.TotalDeduction.Equal(dec("510")))
	})

	t.Run("agent charge never contributes to total deduction", func(t *testing.T) {
		bracket := &models.ChargeBracket{
			ChargeType: models.ChargeTypePercentage,
			AdminRate:  dec("0"),
			AgentRate:  dec("10"),
		}

		b := CalculateCharges(bracket, dec("1000"), nil)

		assert.True(t, b.AgentCharge.Equal(dec("100")))
		assert.True(t, b.TotalDeduction.Equal(dec("1000")))
	})

	t.Run("percentage math stays exact at two places", func(t *testing.T) {
		bracket := &models.ChargeBracket{
			ChargeType: models.ChargeTypePercentage,
			AdminRate:  dec("2.5"),
		}

		b := CalculateCharges(bracket, dec("0.10"), nil)

		// 0.10 * 2.5% = 0.0025, rounds to 0.00
		assert.True(t, b.AdminCharge.IsZero(), "admin charge = %s", b.AdminCharge)
		assert.True(t, b.TotalDeduction.Equal(dec("0.10")))
	})
}

func TestBracketContains(t *testing.T) {
	b := &models.ChargeBracket{StartAmount: dec("0"), EndAmount: dec("1000")}

	assert.True(t, b.Contains(dec("0")))
	assert.True(t, b.Contains(dec("1000")))
	assert.True(t, b.Contains(dec("500")))
	assert.False(t, b.Contains(dec("1000.01")))
}

func TestFindBracket(t *testing.T) {
	t.Run("first ascending match wins", func(t *testing.T) {
		db, mock := newMockDB(t)

		rows := sqlmock.NewRows([]string{"id", "merchant_id", "direction", "start_amount", "end_amount", "charge_type", "admin_rate", "agent_rate"}).
			AddRow(1, 7, models.DirectionPayout, "0", "1000", models.ChargeTypePercentage, "2", "1").
			AddRow(2, 7, models.DirectionPayout, "500", "5000", models.ChargeTypePercentage, "3", "1")
		mock.ExpectQuery(`SELECT \* FROM "charge_brackets" WHERE merchant_id = \$1 AND direction = \$2`).
			WithArgs(7, models.DirectionPayout).
			WillReturnRows(rows)

		bracket, err := FindBracket(db, 7, models.DirectionPayout, dec("600"))
		require.NoError(t, err)
		assert.Equal(t, uint(1), bracket.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no containing bracket", func(t *testing.T) {
		db, mock := newMockDB(t)

		rows := sqlmock.NewRows([]string{"id", "merchant_id", "direction", "start_amount", "end_amount", "charge_type", "admin_rate", "agent_rate"}).
			AddRow(1, 7, models.DirectionPayout, "0", "1000", models.ChargeTypePercentage, "2", "1")
		mock.ExpectQuery(`SELECT \* FROM "charge_brackets"`).
			WillReturnRows(rows)

		_, err := FindBracket(db, 7, models.DirectionPayout, dec("2000"))
		assert.ErrorIs(t, err, ErrNoBracket)
	})
}
