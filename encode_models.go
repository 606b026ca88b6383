package budget

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// The budget and statement collaborators are normally handed to the engine
// by the surrounding application. The CLI reads them from JSONL files in the
// same record-per-line format as the book; these codecs cover that path.
// Parsing raw bank exports is not covered: a statement file already
// carries the bucket codes assigned by the external matching engine.

const (
	recordBudget     = "budget"
	recordAllocation = "allocation"
	recordStatement  = "statement-transaction"
)

// DecodeBudget reads a budget model from JSONL: a budget header with the
// effective date followed by one allocation record per bucket.
func DecodeBudget(r io.Reader) (*BudgetModel, error) {
	var model *BudgetModel
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}
		switch identifier.Record {
		case recordBudget:
			var temp struct {
				Effective Date `json:"effective"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			model = NewBudgetModel(temp.Effective)
		case recordAllocation:
			if model == nil {
				return nil, fmt.Errorf("allocation record before the budget header")
			}
			var temp struct {
				Bucket string `json:"bucket"`
				Amount Money  `json:"amount"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			if temp.Bucket == "" {
				return nil, fmt.Errorf("allocation record without a bucket code")
			}
			model.SetAllocation(temp.Bucket, temp.Amount)
		default:
			return nil, fmt.Errorf("unknown record: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("budget header is missing")
	}
	return model, nil
}

// EncodeBudget persists a budget model in the format DecodeBudget reads.
func EncodeBudget(w io.Writer, model *BudgetModel) error {
	var header jsonObjectWriter
	header.Append("record", recordBudget)
	header.Append("effective", model.EffectiveFrom())
	if err := writeRecord(w, &header); err != nil {
		return err
	}
	for code, amount := range model.Allocations() {
		var rec jsonObjectWriter
		rec.Append("record", recordAllocation)
		rec.Append("bucket", code)
		rec.Append("amount", amount)
		if err := writeRecord(w, &rec); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStatement reads a statement from JSONL, one transaction per line.
func DecodeStatement(r io.Reader) (*StatementModel, error) {
	var txs []StatementTransaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}
		if identifier.Record != recordStatement {
			return nil, fmt.Errorf("unknown record: %q", identifier.Record)
		}
		var temp struct {
			Id        string  `json:"id"`
			Date      Date    `json:"date"`
			Amount    Money   `json:"amount"`
			Narrative string  `json:"narrative"`
			Bucket    string  `json:"bucket"`
			Account   Account `json:"account"`
			Reference string  `json:"reference"`
		}
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, err
		}
		txs = append(txs, StatementTransaction{
			ID:         temp.Id,
			Date:       temp.Date,
			Amount:     temp.Amount,
			Narrative:  temp.Narrative,
			BucketCode: temp.Bucket,
			Account:    temp.Account,
			Reference:  temp.Reference,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return NewStatementModel(txs...), nil
}
