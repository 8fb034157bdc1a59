package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextPlainText(t *testing.T) {
	text := ExtractText([]byte("hello world"), "notes.txt")
	assert.Equal(t, "hello world", text)
}

func TestExtractTextUnknownExtensionFallsBackToDecode(t *testing.T) {
	text := ExtractText([]byte("some log line"), "trace.log")
	assert.Equal(t, "some log line", text)
}

func TestExtractTextReplacesInvalidUTF8(t *testing.T) {
	text := ExtractText([]byte{'h', 'i', 0xff, 0xfe, '!'}, "data.bin")
	assert.Contains(t, text, "hi")
	assert.Contains(t, text, "!")
	assert.True(t, len(text) > 0)
	assert.NotContains(t, text, string(byte(0xff)))
}

func TestExtractTextCSVRendersRows(t *testing.T) {
	csvData := "name,age,city\nalice,30,berlin\nbob,,oslo\n"
	text := ExtractText([]byte(csvData), "people.csv")

	assert.Contains(t, text, "name: alice | age: 30 | city: berlin")
	// empty cell skipped
	assert.Contains(t, text, "name: bob | city: oslo")
	assert.Contains(t, text, "\n\n")
}

func TestExtractTextCSVCaseInsensitiveExtension(t *testing.T) {
	csvData := "col\nval\n"
	text := ExtractText([]byte(csvData), "DATA.CSV")
	assert.Equal(t, "col: val", text)
}

func TestExtractTextCSVFallsBackOnParseError(t *testing.T) {
	// unterminated quote makes the csv reader fail; raw decode is returned
	broken := "a,b\n\"unterminated,1\n"
	text := ExtractText([]byte(broken), "broken.csv")
	assert.Equal(t, broken, text)
}

func TestExtractTextEmptyInput(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil, "empty.txt"))
	assert.Equal(t, "", ExtractText([]byte{}, "empty.csv"))
}

func TestExtractTextMalformedPDFReturnsEmpty(t *testing.T) {
	text := ExtractText([]byte("not a pdf at all"), "fake.pdf")
	assert.Equal(t, "", text)
}
