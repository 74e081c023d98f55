// Package corpus reads headline corpora from delimited text files.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/siherrmann/headliner/helper"
)

// HeadlineColumn is the zero-based column holding the headline text
const HeadlineColumn = 1

// ErrShortRow is returned for a row without a headline column
var ErrShortRow = errors.New("row has fewer than two columns")

// LoadHeadlines reads the headline column of every data row in the file at path.
// The first row is treated as header and discarded.
func LoadHeadlines(path string, delimiter rune) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, helper.NewError("open corpus", err)
	}
	defer f.Close()

	return ReadHeadlines(f, delimiter)
}

// ReadHeadlines is LoadHeadlines for an already opened reader.
// A quote inside an unquoted field is kept as a literal character.
// Blank lines are not rows and are skipped.
func ReadHeadlines(r io.Reader, delimiter rune) ([]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	headlines := []string{}
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, helper.NewError("parse corpus", err)
		}

		if len(record) <= HeadlineColumn {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d column(s)", ErrShortRow, line, len(record))
		}

		if header {
			header = false
			continue
		}
		headlines = append(headlines, record[HeadlineColumn])
	}

	return headlines, nil
}
