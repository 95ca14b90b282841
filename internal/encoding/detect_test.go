package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/khata/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := "ref;narration;debit\nJ1;Café rent ₹;1,17,000.00\n"

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestDecode_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "ref;narration\n"...)

	got, charset := readAll(t, input)
	assert.Equal(t, "ref;narration\n", got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestDecode_UTF16LEWithBOM(t *testing.T) {
	want := "ref,date,narration\nR1,2025-01-15,Salários\n"

	enc, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	got, charset := readAll(t, enc)
	assert.Equal(t, want, got)
	assert.Equal(t, encoding.UTF16LE, charset)
}

func TestDecode_Windows1252(t *testing.T) {
	want := "ref;narration;debit\nR1;Café Müller façade repair;1500.00\nR1;Frühstück für Gäste;200.00\n"

	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	got, charset := readAll(t, latin)
	assert.Equal(t, want, got)
	assert.NotEqual(t, encoding.UTF8, charset)
}

func TestDecode_Empty(t *testing.T) {
	got, charset := readAll(t, nil)
	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestDecode_LongUTF8AcrossSniffWindow(t *testing.T) {
	// Multi-byte runes straddle the sniff window boundary.
	input := strings.Repeat("₹", 3000)

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader(t *testing.T) {
	r, err := encoding.NewUTF8Reader(strings.NewReader("plain ascii"))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain ascii", string(got))
}
