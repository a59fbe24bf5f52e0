// Package render turns check reports into the text and JSON shown to users.
package render

import (
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/domain"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type BundleView struct {
	Label            string `json:"label"`
	Endpoint         string `json:"endpoint"`
	Network          string `json:"network"`
	ChainID          uint64 `json:"chain_id"`
	Number           uint64 `json:"number"`
	Timestamp        uint64 `json:"timestamp"`
	TimestampUTC     string `json:"timestamp_utc"`
	Hash             string `json:"hash"`
	ParentHash       string `json:"parent_hash"`
	StateRoot        string `json:"state_root"`
	ReceiptsRoot     string `json:"receipts_root"`
	TransactionsRoot string `json:"transactions_root"`
	Commitment       string `json:"commitment"`
}

type CrossCheckView struct {
	Fields     map[domain.Field]bool `json:"fields"`
	Commitment bool                  `json:"commitment"`
	Consistent bool                  `json:"consistent"`
}

type View struct {
	BlockTag   string          `json:"block_tag"`
	Primary    *BundleView     `json:"primary,omitempty"`
	Secondary  *BundleView     `json:"secondary,omitempty"`
	CrossCheck *CrossCheckView `json:"cross_check,omitempty"`
	ElapsedMS  int64           `json:"elapsed_ms"`
	Error      string          `json:"error,omitempty"`
}

// NewView flattens a report. Bundles only exist for headers that encoded, so
// a failed header never shows a commitment.
func NewView(report *application.Report, err error) View {
	var view View
	if err != nil {
		view.Error = err.Error()
	}
	if report == nil {
		return view
	}
	view.BlockTag = report.Tag.String()
	view.ElapsedMS = report.Elapsed.Milliseconds()
	view.Primary = bundleView(report.Primary)
	view.Secondary = bundleView(report.Secondary)
	if c := report.Comparison; c != nil {
		fields := make(map[domain.Field]bool, domain.FieldCount)
		for _, field := range domain.Fields {
			fields[field] = c.Match(field)
		}
		view.CrossCheck = &CrossCheckView{
			Fields:     fields,
			Commitment: c.CommitmentMatch,
			Consistent: c.Consistent(),
		}
	}
	return view
}

func bundleView(b *application.Bundle) *BundleView {
	if b == nil {
		return nil
	}
	h := b.Header
	return &BundleView{
		Label:            b.Label,
		Endpoint:         b.Endpoint,
		Network:          b.Network,
		ChainID:          h.ChainID,
		Number:           h.Number,
		Timestamp:        h.Timestamp,
		TimestampUTC:     formatTimestamp(h.Timestamp),
		Hash:             hexutil.Encode(h.Hash),
		ParentHash:       hexutil.Encode(h.ParentHash),
		StateRoot:        hexutil.Encode(h.StateRoot),
		ReceiptsRoot:     hexutil.Encode(h.ReceiptsRoot),
		TransactionsRoot: hexutil.Encode(h.TransactionsRoot),
		Commitment:       b.Commitment.Hex(),
	}
}

func formatTimestamp(ts uint64) string {
	if ts > 1<<62 {
		return "out of range"
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05")
}
