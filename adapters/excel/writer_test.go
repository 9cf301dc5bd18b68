package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"datalens/domain/summary"
	"datalens/domain/table"
)

func TestTableBytesRoundTrip(t *testing.T) {
	loader := NewLoader()
	writer := NewWriter()

	src, err := loader.Load([]byte(bankCSV))
	require.NoError(t, err)

	data, err := writer.TableBytes(src)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"age", "job", "y"}, rows[0])
	assert.Equal(t, []string{"25", "admin", "yes"}, rows[1])
	assert.Equal(t, []string{"40", "blue-collar", "no"}, rows[2])
	assert.Equal(t, []string{"30", "admin", "yes"}, rows[3])
}

func TestTableBytesEmptyTableIsValidWorkbook(t *testing.T) {
	writer := NewWriter()

	tbl, err := table.New([]table.Column{
		{Name: "age", Kind: table.KindNumeric, Cells: []string{}, Nums: []float64{}},
		{Name: "y", Kind: table.KindCategorical, Cells: []string{}},
	})
	require.NoError(t, err)

	data, err := writer.TableBytes(tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"age", "y"}, rows[0])
}

func TestDistributionBytes(t *testing.T) {
	writer := NewWriter()

	data, err := writer.DistributionBytes(summary.Distribution{
		Column: "y",
		Total:  3,
		Entries: []summary.Entry{
			{Value: "no", Count: 1, Percent: 100.0 / 3},
			{Value: "yes", Count: 2, Percent: 200.0 / 3},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"y", "percent"}, rows[0])
	assert.Equal(t, "no", rows[1][0])
	assert.Equal(t, "yes", rows[2][0])
}

func TestDistributionBytesEmpty(t *testing.T) {
	writer := NewWriter()

	data, err := writer.DistributionBytes(summary.Distribution{Column: "y"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"y", "percent"}, rows[0])
}
