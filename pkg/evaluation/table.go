package evaluation

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andrew/page-eval/pkg/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable reads the evaluation table at path
func ReadTable(path string) ([]models.EvaluationRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open evaluation table: %w", err)
	}
	defer file.Close()

	rows, err := ParseTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ParseTable parses "page,question" CSV records. The first record is treated as a
// header when its page cell is not an integer. Columns after the second are ignored.
func ParseTable(r io.Reader) ([]models.EvaluationRow, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	var rows []models.EvaluationRow
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if _, err := strconv.Atoi(strings.TrimSpace(record[0])); err != nil {
				continue
			}
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected page and question columns, got %d", line, len(record))
		}
		page, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid page %q", line, record[0])
		}

		rows = append(rows, models.EvaluationRow{
			Line:     line,
			Page:     page,
			Question: record[1],
		})
	}
	return rows, nil
}
