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

	"github.com/spendsmart/spendsmart/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Narration,Debit,Credit\n01/05/2024,Café ₹ Coffee,250,\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Café" with é = 0xE9.
	input := []byte("Date,Narration,Debit,Credit\n01/05/2024,Caf\xe9 Mumbai,250,\n")
	assert.Equal(t, "Date,Narration,Debit,Credit\n01/05/2024,Café Mumbai,250,\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Narration\n")...)
	assert.Equal(t, "Date,Narration\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LEBOM(t *testing.T) {
	want := "Date,Narration,Debit,Credit\n01/05/2024,Swiggy,120,\n"

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(want)
	require.NoError(t, err)

	assert.Equal(t, want, readAll(t, []byte(encoded)))
}

func TestNewUTF8Reader_MultibyteAtWindowEdge(t *testing.T) {
	// Place a 3-byte rune across the sniff boundary.
	prefix := strings.Repeat("a", 4095)
	input := prefix + "₹" + strings.Repeat("b", 10)

	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestReadString(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Narration\nNestlé India\n")
	require.NoError(t, err)

	got, err := encoding.ReadString(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Narration\nNestlé India\n", got)
}
