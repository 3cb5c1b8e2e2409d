package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err = FormatFromFilename("numbers.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromFilename("numbers")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParsePoolRowsHeaderRules(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []string
	}{
		{
			name: "english header",
			rows: [][]string{{"Number"}, {"3"}, {"1"}, {"2"}},
			want: []string{"1", "2", "3"},
		},
		{
			name: "localized header",
			rows: [][]string{{"号码"}, {"010"}, {"002"}},
			want: []string{"002", "010"},
		},
		{
			name: "non numeric first row",
			rows: [][]string{{"Ticket"}, {"7"}},
			want: []string{"7"},
		},
		{
			name: "NaN first row is a header",
			rows: [][]string{{"NaN"}, {"002"}, {"001"}},
			want: []string{"001", "002"},
		},
		{
			name: "Inf first row is a header",
			rows: [][]string{{"Inf"}, {"002"}, {"001"}},
			want: []string{"001", "002"},
		},
		{
			name: "numeric first row is data",
			rows: [][]string{{"42"}, {"7"}},
			want: []string{"7", "42"},
		},
		{
			name: "non numeric later rows are kept",
			rows: [][]string{{"number"}, {"B2"}, {"10"}, {"A1"}},
			want: []string{"10", "A1", "B2"},
		},
		{
			name: "blank and repeated header rows skipped",
			rows: [][]string{{" 5 ", "ignored"}, {}, {""}, {"NUMBER"}, {"6"}},
			want: []string{"5", "6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePoolRows(tt.rows))
		})
	}
}

func TestReadPoolFileCSV(t *testing.T) {
	ids, err := ReadPoolFile(strings.NewReader("number\n003\n001,extra\n002\n"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002", "003"}, ids)
}

func TestPoolTemplateRoundTripXLSX(t *testing.T) {
	var buf bytes.Buffer
	ids := SequentialIdentifiers(1, 12, 3)
	require.NoError(t, WritePoolTemplate(&buf, FormatXLSX, "", ids))

	rows, err := ReadRows(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, []string{PoolHeaderLabel}, rows[0])
	assert.Equal(t, []string{"001"}, rows[1])

	parsed := ParsePoolRows(rows)
	assert.Equal(t, ids, parsed)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, FormatCSV,
		[]string{"award", "number", "time"},
		[][]string{{"First Prize", "017", "2024-01-01 10:00:00"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "award,number,time\nFirst Prize,017,2024-01-01 10:00:00\n", buf.String())
}

func TestWriteTableUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, Format("pdf"), nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
