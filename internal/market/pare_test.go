package market

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawExport = `Timestamp,Open,High,Low,Close,Volume_(BTC),Volume_(Currency),Weighted_Price
1417411980,300,300,300,300,0.01,3,300
1483228800,963.66,963.66,963.66,963.66,0.5,481.83,963.66
1514764800,13880,13880.01,13879.99,13880,1.2,16656,13880
1514764860,NaN,NaN,NaN,NaN,NaN,NaN,NaN
`

func TestPare(t *testing.T) {
	var buff bytes.Buffer
	n, err := Pare(strings.NewReader(rawExport), &buff, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, `1417411980,300
1483228800,963.66
1514764800,13880
1514764860,NaN
`, buff.String())
}

func TestPare_minYear(t *testing.T) {
	var buff bytes.Buffer
	n, err := Pare(strings.NewReader(rawExport), &buff, 2018)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, `1514764800,13880
1514764860,NaN
`, buff.String())
}

func TestPare_emptyInput(t *testing.T) {
	var buff bytes.Buffer
	n, err := Pare(strings.NewReader(""), &buff, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buff.String())
}

func TestPare_malformedTimestamp(t *testing.T) {
	var buff bytes.Buffer
	_, err := Pare(strings.NewReader("ts,price\nnope,1\n"), &buff, 0)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestPareFile_roundTripsThroughLoad(t *testing.T) {
	in := writeCsv(t, "raw.csv", rawExport)
	out := filepath.Join(t.TempDir(), "data.csv")

	n, err := PareFile(in, out, 2017)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = os.Stat(out)
	require.NoError(t, err)

	points, err := Load(out, ReadOptions{MinYear: 2018})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Valid())
	assert.False(t, points[1].Valid())
}
