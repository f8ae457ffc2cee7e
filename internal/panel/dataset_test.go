package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(month Month, target float64, lags ...float64) Row {
	return Row{
		StoreID:   1,
		ProductID: 10,
		Month:     month,
		Lags:      lags,
		Target:    target,
	}
}

func TestTrainingRows_FiltersSentinels(t *testing.T) {
	jan := NewMonth(2019, time.January)

	rows := []Row{
		row(jan, 5.0, 1.0, 2.0),          // complete, kept
		row(jan.Add(1), Sentinel(), 1.0),  // no target, dropped
		row(jan.Add(2), 3.0, Sentinel()),  // sentinel lag, dropped
		row(jan.Add(3), -4.0, 1.0),        // negative target, clipped
	}

	train := TrainingRows(rows)
	require.Len(t, train, 2)

	assert.Equal(t, jan, train[0].Month)
	assert.InDelta(t, 5.0, train[0].Target, 1e-9)

	assert.Equal(t, jan.Add(3), train[1].Month)
	assert.InDelta(t, 0.0, train[1].Target, 1e-9, "negative target clipped to zero")
}

func TestTrainingRows_SentinelRollMeanDropped(t *testing.T) {
	r := row(NewMonth(2019, time.March), 2.0, 1.0)
	r.RollMeans = []float64{Sentinel()}

	assert.Empty(t, TrainingRows([]Row{r}))

	r.RollMeans = []float64{3.5}
	assert.Len(t, TrainingRows([]Row{r}), 1)
}

func TestInferenceRows(t *testing.T) {
	jan := NewMonth(2019, time.January)
	rows := []Row{
		row(jan, 5.0, 1.0),
		row(jan.Add(1), Sentinel(), 1.0),
	}

	inference := InferenceRows(rows)
	require.Len(t, inference, 1)
	assert.Equal(t, jan.Add(1), inference[0].Month)
}

func TestTemporalSplit(t *testing.T) {
	jan := NewMonth(2019, time.January)

	var rows []Row
	for i := 0; i < 10; i++ {
		rows = append(rows, row(jan.Add(i), 1.0, 1.0))
	}

	train, valid := TemporalSplit(rows, 0.8)

	require.Len(t, train, 8)
	require.Len(t, valid, 2)

	maxTrain := train[0].Month
	for _, r := range train {
		if r.Month > maxTrain {
			maxTrain = r.Month
		}
	}
	for _, r := range valid {
		assert.Greater(t, int(r.Month), int(maxTrain), "validation strictly follows training in time")
	}
}

func TestTemporalSplit_Edges(t *testing.T) {
	jan := NewMonth(2019, time.January)
	rows := []Row{row(jan, 1.0, 1.0), row(jan.Add(1), 1.0, 1.0)}

	train, valid := TemporalSplit(nil, 0.8)
	assert.Nil(t, train)
	assert.Nil(t, valid)

	train, valid = TemporalSplit(rows, 0)
	assert.Empty(t, train)
	assert.Len(t, valid, 2)

	train, valid = TemporalSplit(rows, 1)
	assert.Len(t, train, 2)
	assert.Empty(t, valid)
}

func TestMonth_Arithmetic(t *testing.T) {
	dec := NewMonth(2018, time.December)
	jan := NewMonth(2019, time.January)

	assert.Equal(t, jan, dec.Add(1))
	assert.Equal(t, dec, jan.Add(-1))
	assert.Equal(t, 2018, dec.Year())
	assert.Equal(t, time.December, dec.MonthOfYear())
	assert.Equal(t, "2018-12", dec.String())

	parsed, err := ParseMonth("2019-01")
	require.NoError(t, err)
	assert.Equal(t, jan, parsed)

	_, err = ParseMonth("not-a-month")
	assert.Error(t, err)
}

func TestMonth_Time(t *testing.T) {
	m := NewMonth(2019, time.April)
	assert.Equal(t, time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC), m.Time())
	assert.Equal(t, m, MonthOf(m.Time()))
}
