//go:build unit

package ledger_test

import (
	"testing"
	"time"

	"cashback-ledger/internal/domain/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grantAt builds a grant of the given value granted n days after day0.
func grantAt(t *testing.T, amount string, grantedDay int) *ledger.Grant {
	t.Helper()

	pct, err := ledger.NewPercentageFromFloat(100)
	require.NoError(t, err)

	g, err := ledger.NewGrant(
		"52998224725",
		uuid.New(),
		ledger.MustMoneyFromString(amount),
		pct,
		day(grantedDay),
		validity,
	)
	require.NoError(t, err)
	return g
}

func TestAvailableBalance(t *testing.T) {
	g1 := grantAt(t, "100.00", 1)
	g2 := grantAt(t, "50.00", 5)
	grants := []*ledger.Grant{g1, g2}

	assert.Equal(t, "150.00", ledger.AvailableBalance(grants, day(10)).String())

	// g1 expires on day 1+90; its stored balance no longer counts
	assert.Equal(t, "50.00", ledger.AvailableBalance(grants, day(1+validityDays)).String())
	assert.Equal(t, "0.00", ledger.AvailableBalance(grants, day(5+validityDays)).String())
}

func TestPlanConsumption(t *testing.T) {
	t.Run("fifo across grants", func(t *testing.T) {
		g1 := grantAt(t, "100.00", 1)
		g2 := grantAt(t, "50.00", 5)

		draws, err := ledger.PlanConsumption([]*ledger.Grant{g2, g1}, ledger.MustMoneyFromString("120.00"), day(10))
		require.NoError(t, err)
		require.Len(t, draws, 2)

		assert.Equal(t, g1.ID(), draws[0].GrantID)
		assert.Equal(t, "100.00", draws[0].Amount.String())
		assert.Equal(t, g2.ID(), draws[1].GrantID)
		assert.Equal(t, "20.00", draws[1].Amount.String())
	})

	t.Run("single grant covers the whole amount", func(t *testing.T) {
		g1 := grantAt(t, "100.00", 1)
		g2 := grantAt(t, "50.00", 5)

		draws, err := ledger.PlanConsumption([]*ledger.Grant{g1, g2}, ledger.MustMoneyFromString("80.00"), day(10))
		require.NoError(t, err)
		require.Len(t, draws, 1)
		assert.Equal(t, g1.ID(), draws[0].GrantID)
		assert.Equal(t, "80.00", draws[0].Amount.String())
	})

	t.Run("expired grants are never a source", func(t *testing.T) {
		g1 := grantAt(t, "100.00", 1)
		g2 := grantAt(t, "50.00", 50)
		asOf := day(1 + validityDays) // g1 expired, g2 alive

		draws, err := ledger.PlanConsumption([]*ledger.Grant{g1, g2}, ledger.MustMoneyFromString("40.00"), asOf)
		require.NoError(t, err)
		require.Len(t, draws, 1)
		assert.Equal(t, g2.ID(), draws[0].GrantID)
	})

	t.Run("insufficient balance rejects the whole plan", func(t *testing.T) {
		g1 := grantAt(t, "100.00", 1)

		_, err := ledger.PlanConsumption([]*ledger.Grant{g1}, ledger.MustMoneyFromString("100.01"), day(10))
		require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		_, err := ledger.PlanConsumption(nil, ledger.ZeroMoney(), day(1))
		require.ErrorIs(t, err, ledger.ErrNonPositiveAmount)
	})

	t.Run("plan plus draws keeps the balance equation", func(t *testing.T) {
		g1 := grantAt(t, "100.00", 1)
		g2 := grantAt(t, "50.00", 5)
		grants := []*ledger.Grant{g1, g2}
		asOf := day(10)

		before := ledger.AvailableBalance(grants, asOf)
		draws, err := ledger.PlanConsumption(grants, ledger.MustMoneyFromString("120.00"), asOf)
		require.NoError(t, err)

		byID := map[uuid.UUID]*ledger.Grant{g1.ID(): g1, g2.ID(): g2}
		for _, d := range draws {
			require.NoError(t, byID[d.GrantID].Draw(d.Amount, asOf))
		}

		after := ledger.AvailableBalance(grants, asOf)
		assert.Equal(t, "30.00", after.String())
		assert.Equal(t, before.Sub(ledger.MustMoneyFromString("120.00")).String(), after.String())
		assert.Equal(t, "0.00", g1.RemainingBalance().String())
		assert.Equal(t, "30.00", g2.RemainingBalance().String())
	})
}

func TestPlanConsumptionPrefersOldestUnderTies(t *testing.T) {
	base := day(3)
	mk := func(amount string) *ledger.Grant {
		pct, err := ledger.NewPercentageFromFloat(100)
		require.NoError(t, err)
		g, err := ledger.NewGrant("52998224725", uuid.New(), ledger.MustMoneyFromString(amount), pct, base, validity)
		require.NoError(t, err)
		return g
	}
	g1 := mk("10.00")
	g2 := mk("10.00")

	// same granted_at: order is stable with respect to the input slice
	draws, err := ledger.PlanConsumption([]*ledger.Grant{g1, g2}, ledger.MustMoneyFromString("15.00"), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, g1.ID(), draws[0].GrantID)
}
