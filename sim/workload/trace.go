package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
)

var traceColumns = []string{"time", "op", "block_id"}

// LoadTrace reads a CSV trace with columns time,op,block_id. The header row is
// required. Request ids follow row order.
func LoadTrace(path string) ([]Request, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadTrace(file)
}

// ReadTrace parses a CSV trace from r. See LoadTrace.
func ReadTrace(r io.Reader) ([]Request, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(traceColumns)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, col := range traceColumns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("CSV header column %d is %q, want %q", i, header[i], col)
		}
	}

	var requests []Request
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		req, err := parseRow(len(requests), row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("empty trace")
	}
	return requests, nil
}

func parseRow(id int, row []string) (Request, error) {
	t, err := strconv.ParseFloat(row[0], 64)
	if err != nil {
		return Request{}, fmt.Errorf("row %d: parsing time: %w", id, err)
	}
	if t < 0 {
		return Request{}, fmt.Errorf("row %d: negative time %v", id, t)
	}
	op, err := ParseOp(row[1])
	if err != nil {
		return Request{}, fmt.Errorf("row %d: %w", id, err)
	}
	blockID, ok := new(big.Int).SetString(row[2], 10)
	if !ok || blockID.Sign() < 0 {
		return Request{}, fmt.Errorf("row %d: invalid block id %q", id, row[2])
	}
	return Request{ID: id, Time: t, Op: op, BlockID: blockID}, nil
}

// WriteTrace writes requests to path in the format LoadTrace reads.
func WriteTrace(path string, requests []Request) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(traceColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range requests {
		row := []string{
			strconv.FormatFloat(r.Time, 'f', -1, 64),
			r.Op.String(),
			r.BlockID.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", r.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing trace: %w", err)
	}
	return nil
}
