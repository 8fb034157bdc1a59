package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

func init() {
	// Load .env file from the current directory
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables.")
	}
	if err := license.SetMeteredKey(os.Getenv("UNIDOC_LICENSE_KEY")); err != nil {
		fmt.Printf("ERROR: Failed to set Unidoc license key: %v. PDF processing will fail.\n", err)
	}
}

// ExtractText converts raw uploaded bytes into plain text based on the
// filename's extension. It always returns a string; an empty string means
// nothing extractable, which callers report as an ingestion failure.
func ExtractText(content []byte, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	logrus.Infof("PARSER: Parsing file: %s (extension: %s)", filename, ext)

	switch ext {
	case ".pdf":
		return extractTextFromPDF(content)
	case ".csv":
		return extractTextFromCSV(content)
	default:
		// txt, md, or any text file
		return decodeText(content)
	}
}

// extractTextFromPDF uses UniPDF to get all text from a PDF, page by page.
// Pages that fail extraction or carry no text are skipped, not fatal.
func extractTextFromPDF(content []byte) string {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		logrus.Warnf("PARSER: PDF parsing error: %v", err)
		return ""
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		logrus.Warnf("PARSER: PDF page count error: %v", err)
		return ""
	}

	var parts []string
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			logrus.Warnf("PARSER: Page %d unreadable: %v", i, err)
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			logrus.Warnf("PARSER: Page %d extractor error: %v", i, err)
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			logrus.Warnf("PARSER: Page %d extraction error: %v", i, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			logrus.Warnf("PARSER: Page %d has no extractable text", i)
			continue
		}
		parts = append(parts, text)
	}

	result := strings.Join(parts, "\n\n")
	logrus.Infof("PARSER: PDF parsed successfully: %d characters extracted", len(result))
	return result
}

// extractTextFromCSV renders each row as "col: value | col: value" for all
// non-empty cells, rows joined with a blank line. On parse failure it falls
// back to best-effort text decoding of the raw bytes.
func extractTextFromCSV(content []byte) string {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		logrus.Warnf("PARSER: CSV parsing error: %v", err)
		return decodeText(content)
	}

	var parts []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Warnf("PARSER: CSV parsing error: %v", err)
			return decodeText(content)
		}
		var cells []string
		for i, val := range record {
			if strings.TrimSpace(val) == "" {
				continue
			}
			col := fmt.Sprintf("column_%d", i)
			if i < len(header) {
				col = header[i]
			}
			cells = append(cells, fmt.Sprintf("%s: %s", col, val))
		}
		if len(cells) > 0 {
			parts = append(parts, strings.Join(cells, " | "))
		}
	}

	result := strings.Join(parts, "\n\n")
	logrus.Infof("PARSER: CSV parsed successfully: %d characters, %d rows", len(result), len(parts))
	return result
}

// decodeText performs a best-effort UTF-8 decode, replacing invalid byte
// sequences instead of failing.
func decodeText(content []byte) string {
	return strings.ToValidUTF8(string(content), "�")
}
