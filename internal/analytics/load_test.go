package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLoad_Markup(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, readFixture(t, "report.html")...)
	exp, err := Load("report.html", data)
	require.NoError(t, err)
	assert.Equal(t, FormatMarkup, exp.Format)
	assert.Len(t, exp.Questions, 4)
}

func TestLoad_SniffsMarkup(t *testing.T) {
	exp, err := Load("export", readFixture(t, "report.html"))
	require.NoError(t, err)
	assert.Equal(t, FormatMarkup, exp.Format)
}

func TestLoad_FlatWindows1251(t *testing.T) {
	enc, err := charmap.Windows1251.NewEncoder().Bytes(readFixture(t, "report.csv"))
	require.NoError(t, err)

	exp, err := Load("report.csv", enc)
	require.NoError(t, err)
	assert.Equal(t, FormatFlat, exp.Format)
	require.Len(t, exp.Questions, 3)
	assert.Equal(t, "Короткий ответ", exp.Questions[1].Type)
}

func TestLoad_NoHeaderIsEmpty(t *testing.T) {
	exp, err := Load("notes.txt", []byte("just some notes\nnothing tabular\n"))
	require.NoError(t, err)
	assert.Empty(t, exp.Questions)
}

func TestLoad_Binary(t *testing.T) {
	_, err := Load("blob.bin", []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
