package panel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventascli/pkg/contracts/domain"
)

func monthlySeries(t *testing.T, quantities map[time.Month]float64) []Row {
	t.Helper()

	transactions := make([]domain.Transaction, 0, len(quantities))
	for month, qty := range quantities {
		transactions = append(transactions, tx(2019, month, 1, 10, qty, 2.0))
	}

	rows, err := AggregateMonthly(context.Background(), transactions, 1)
	require.NoError(t, err)
	return rows
}

func TestWithRollingMeans_ContiguousSeries(t *testing.T) {
	rows := monthlySeries(t, map[time.Month]float64{
		time.January:  4,
		time.February: 6,
		time.March:    8,
		time.April:    2,
	})

	out, err := WithRollingMeans(rows, []int{2})
	require.NoError(t, err)
	require.Len(t, out, 4)

	// January and February lack two full months of history.
	assert.True(t, IsSentinel(out[0].RollMeans[0]))
	assert.True(t, IsSentinel(out[1].RollMeans[0]))
	// March: mean of January and February.
	assert.InDelta(t, 5.0, out[2].RollMeans[0], 1e-9)
	// April: mean of February and March. The current month never
	// participates in its own rolling mean.
	assert.InDelta(t, 7.0, out[3].RollMeans[0], 1e-9)
}

func TestWithRollingMeans_GapBreaksWindow(t *testing.T) {
	rows := monthlySeries(t, map[time.Month]float64{
		time.January:  4,
		time.February: 6,
		time.April:    2,
	})

	out, err := WithRollingMeans(rows, []int{2})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// April's 2-month window covers March (absent) and February: sentinel,
	// never an average over a fabricated gap.
	assert.True(t, IsSentinel(out[2].RollMeans[0]))
}

func TestWithRollingMeans_MultipleWindows(t *testing.T) {
	rows := monthlySeries(t, map[time.Month]float64{
		time.January:  3,
		time.February: 5,
		time.March:    7,
		time.April:    9,
		time.May:      11,
	})

	out, err := WithRollingMeans(rows, []int{2, 4})
	require.NoError(t, err)

	may := out[4]
	require.Len(t, may.RollMeans, 2)
	assert.InDelta(t, 8.0, may.RollMeans[0], 1e-9)
	assert.InDelta(t, 6.0, may.RollMeans[1], 1e-9)

	april := out[3]
	assert.InDelta(t, 6.0, april.RollMeans[0], 1e-9)
	assert.True(t, IsSentinel(april.RollMeans[1]), "only three months precede April")
}

func TestWithRollingMeans_InputUnchanged(t *testing.T) {
	rows := monthlySeries(t, map[time.Month]float64{
		time.January:  4,
		time.February: 6,
	})

	_, err := WithRollingMeans(rows, []int{2})
	require.NoError(t, err)

	for _, row := range rows {
		assert.Nil(t, row.RollMeans, "input rows must not be mutated")
	}
}

func TestWithRollingMeans_InvalidWindow(t *testing.T) {
	rows := monthlySeries(t, map[time.Month]float64{time.January: 4})

	_, err := WithRollingMeans(rows, []int{0})
	assert.Error(t, err)
}

func TestWithRollingMeans_EmptyPanel(t *testing.T) {
	out, err := WithRollingMeans(nil, []int{4})
	require.NoError(t, err)
	assert.Empty(t, out)
}
