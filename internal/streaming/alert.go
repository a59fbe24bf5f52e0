package streaming

import (
	"errors"
	"time"

	"hdrcommit/internal/application"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FromReport builds a mismatch alert. Only compared reports can be alerted on.
func FromReport(report *application.Report, observedAt time.Time) (Message, error) {
	if report == nil || report.Comparison == nil || report.Primary == nil || report.Secondary == nil {
		return Message{}, errors.New("report has no comparison")
	}
	mismatched := make([]string, 0)
	for _, field := range report.Comparison.Mismatched() {
		mismatched = append(mismatched, field.String())
	}
	if !report.Comparison.CommitmentMatch {
		mismatched = append(mismatched, "commitment")
	}
	return Message{
		Type:        MessageTypeMismatch,
		ChainID:     report.Primary.Header.ChainID,
		BlockTag:    report.Tag.String(),
		BlockNumber: report.Primary.Header.Number,
		Mismatched:  mismatched,
		Primary:     viewOf(report.Primary),
		Secondary:   viewOf(report.Secondary),
		ObservedAt:  observedAt.Unix(),
	}, nil
}

func viewOf(bundle *application.Bundle) ProviderView {
	h := bundle.Header
	return ProviderView{
		Endpoint:         bundle.Endpoint,
		ChainID:          h.ChainID,
		BlockNumber:      h.Number,
		BlockHash:        hexutil.Encode(h.Hash),
		ParentHash:       hexutil.Encode(h.ParentHash),
		StateRoot:        hexutil.Encode(h.StateRoot),
		ReceiptsRoot:     hexutil.Encode(h.ReceiptsRoot),
		TransactionsRoot: hexutil.Encode(h.TransactionsRoot),
		Timestamp:        h.Timestamp,
		Commitment:       bundle.Commitment.Hex(),
	}
}
