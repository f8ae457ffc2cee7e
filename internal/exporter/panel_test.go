package exporter

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventascli/internal/errors"
	"ventascli/internal/panel"
)

func samplePanel() []panel.Row {
	jan := panel.NewMonth(2014, time.January)
	feb := jan.Add(1)
	return []panel.Row{
		{
			StoreID: 1, ProductID: 10, Month: jan,
			TotalQuantity: 5, TotalRevenue: 50,
			Lags:      []float64{panel.Sentinel(), panel.Sentinel()},
			RollMeans: []float64{panel.Sentinel()},
			Target:    3,
		},
		{
			StoreID: 1, ProductID: 10, Month: feb,
			TotalQuantity: 3, TotalRevenue: 30,
			Lags:      []float64{5, panel.Sentinel()},
			RollMeans: []float64{panel.Sentinel()},
			Target:    panel.Sentinel(),
		},
	}
}

func TestPanelHeader(t *testing.T) {
	header := PanelHeader(2, []int{4, 8})
	assert.Equal(t, []string{
		"store_id", "product_id", "year_month", "total_quantity", "total_revenue",
		"lag_1", "lag_2", "roll_mean_4", "roll_mean_8", "target",
	}, header)
}

func TestWritePanelCSV_SentinelsAreEmptyCells(t *testing.T) {
	writer, paths := newTestWriter(t)

	require.NoError(t, writer.WritePanelCSV(paths.PanelCSV, samplePanel(), []int{4}))

	data, err := os.ReadFile(paths.PanelCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "store_id,product_id,year_month,total_quantity,total_revenue,lag_1,lag_2,roll_mean_4,target", lines[0])
	assert.Equal(t, "1,10,2014-01,5,50,,,,3", lines[1])
	assert.Equal(t, "1,10,2014-02,3,30,5,,,", lines[2])
}

func TestReadPanelCSV_RoundTrip(t *testing.T) {
	writer, paths := newTestWriter(t)
	rows := samplePanel()

	require.NoError(t, writer.WritePanelCSV(paths.PanelCSV, rows, []int{4}))

	got, windows, err := ReadPanelCSV(paths.PanelCSV)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, windows)
	require.Len(t, got, len(rows))

	for i := range rows {
		assert.Equal(t, rows[i].Key(), got[i].Key())
		assert.Equal(t, rows[i].Month, got[i].Month)
		assert.Equal(t, rows[i].TotalQuantity, got[i].TotalQuantity)
		require.Len(t, got[i].Lags, len(rows[i].Lags))
		for j := range rows[i].Lags {
			if panel.IsSentinel(rows[i].Lags[j]) {
				assert.True(t, panel.IsSentinel(got[i].Lags[j]))
			} else {
				assert.Equal(t, rows[i].Lags[j], got[i].Lags[j])
			}
		}
	}
	assert.Equal(t, float64(3), got[0].Target)
	assert.True(t, panel.IsSentinel(got[1].Target))
}

func TestReadPanelCSV_EmptyPanel(t *testing.T) {
	writer, paths := newTestWriter(t)

	require.NoError(t, writer.WritePanelCSV(paths.PanelCSV, nil, nil))

	got, windows, err := ReadPanelCSV(paths.PanelCSV)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, windows)
}

func TestReadPanelCSV_MissingFile(t *testing.T) {
	_, _, err := ReadPanelCSV("/nonexistent/panel.csv")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrTypeNotFound, appErr.Type)
}

func TestReadPanelCSV_BadHeader(t *testing.T) {
	writer, paths := newTestWriter(t)
	require.NoError(t, writer.WriteSimpleCSV(paths.PanelCSV, []string{"store_id", "wrong"}, nil))

	_, _, err := ReadPanelCSV(paths.PanelCSV)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrTypeValidation, appErr.Type)
}

func TestReadPanelCSV_MalformedCell(t *testing.T) {
	writer, paths := newTestWriter(t)
	require.NoError(t, writer.WriteSimpleCSV(paths.PanelCSV,
		PanelHeader(1, nil),
		[][]string{{"1", "10", "2014-13", "5", "50", "", ""}}))

	_, _, err := ReadPanelCSV(paths.PanelCSV)
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecord(err))
}
