// Package docnum derives canonical document-number keys from extracted
// fields and filenames, and classifies uploads as invoices or purchase orders.
package docnum

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"invoice-recon/constants"
	"invoice-recon/internal/entity"
)

// ErrNoNumber is returned when no digit run can be recovered from a source.
var ErrNoNumber = errors.New("no document number found")

// Patterns are tried in order of decreasing confidence, mirroring the naming
// variants seen in the wild: "INV.-001", "PO_7", "Invoice #12", "purchase-order-3".
var (
	rePrefixed  = regexp.MustCompile(`(?:purchase[-._\s]*order|p\.o|p-o|po|invoice|inv|bill|receipt)[-._\s#]*(\d+)`)
	reNumbered  = regexp.MustCompile(`(?:number|num|no|#)[-._\s]*(\d+)`)
	reSeparated = regexp.MustCompile(`[-._\s#](\d+)(?:[-._\s]|$)`)
	reDigits    = regexp.MustCompile(`\d+`)
)

// Normalize derives the canonical integer key from a document-number string or
// a filename. Leading zeros and separator punctuation do not affect the key:
// "INV-01", "INV-1" and "Invoice_001.pdf" all normalize to 1.
func Normalize(source string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(source))
	s = stripExt(s)
	if s == "" {
		return 0, ErrNoNumber
	}

	for _, re := range []*regexp.Regexp{rePrefixed, reNumbered, reSeparated} {
		if m := re.FindStringSubmatch(s); m != nil {
			return parseDigits(m[1])
		}
	}
	if m := reDigits.FindString(s); m != "" {
		return parseDigits(m)
	}
	return 0, ErrNoNumber
}

// Key is the canonical join key derived for one document.
type Key struct {
	Value  int64
	Source entity.NumberSource

	// Conflict is set when the extracted-field number and the filename number
	// both normalize but disagree. The extracted-field value wins.
	Conflict bool
}

// FromDocument derives a document's key, trying the API-extracted number
// first and the filename second.
func FromDocument(doc entity.ExtractedDocument) (Key, error) {
	var fromField *int64
	if doc.DocumentNumber != "" {
		if v, err := Normalize(doc.DocumentNumber); err == nil {
			fromField = &v
		}
	}
	fromName, nameErr := Normalize(doc.Filename)

	if fromField != nil {
		return Key{
			Value:    *fromField,
			Source:   entity.SourceExtractedField,
			Conflict: nameErr == nil && fromName != *fromField,
		}, nil
	}
	if nameErr != nil {
		return Key{}, ErrNoNumber
	}
	return Key{Value: fromName, Source: entity.SourceFilename}, nil
}

func parseDigits(digits string) (int64, error) {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse document number %q: %w", digits, err)
	}
	return v, nil
}

func stripExt(s string) string {
	ext := constants.NormalizeExt(filepath.Ext(s))
	if _, ok := constants.AllowedExtensions[ext]; ok {
		return strings.TrimSuffix(s, filepath.Ext(s))
	}
	return s
}
