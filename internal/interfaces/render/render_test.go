package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"hdrcommit/internal/application"
	"hdrcommit/internal/commitment"
	"hdrcommit/internal/domain"
)

func sampleHeader() domain.HeaderRecord {
	return domain.HeaderRecord{
		ChainID:          1,
		Number:           18000000,
		Hash:             make([]byte, 32),
		ParentHash:       make([]byte, 32),
		StateRoot:        make([]byte, 32),
		ReceiptsRoot:     make([]byte, 32),
		TransactionsRoot: make([]byte, 32),
		Timestamp:        1700000000,
	}
}

func comparedReport(t *testing.T, b domain.HeaderRecord) *application.Report {
	t.Helper()
	a := sampleHeader()
	comparison, err := commitment.Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	return &application.Report{
		Tag:        domain.BlockNumber(18000000),
		Primary:    &application.Bundle{Label: application.LabelPrimary, Endpoint: "https://a", Network: "Ethereum Mainnet", Header: a, Commitment: comparison.CommitmentA},
		Secondary:  &application.Bundle{Label: application.LabelSecondary, Endpoint: "https://b", Network: "Ethereum Mainnet", Header: b, Commitment: comparison.CommitmentB},
		Comparison: &comparison,
		Elapsed:    1500 * time.Millisecond,
	}
}

func TestTextConsistent(t *testing.T) {
	out := Text(NewView(comparedReport(t, sampleHeader()), nil))

	for _, want := range []string{
		"--- PRIMARY ---",
		"--- SECONDARY ---",
		"🌐 Network: Ethereum Mainnet (chainId 1)",
		"🔢 Block: 18000000  ⏱️ 2023-11-14 22:13:20 UTC",
		"🧩 Header Commitment: 0xf43b3c88f5b96cf2cfdb71978184ef50e4b4651938d830d54bb339ae363837ef",
		"Soundness confirmed across providers.",
		"Elapsed: 1.50s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "❌") {
		t.Fatalf("unexpected failure mark in\n%s", out)
	}
}

func TestTextInconsistent(t *testing.T) {
	b := sampleHeader()
	b.Timestamp++
	out := Text(NewView(comparedReport(t, b), nil))

	if !strings.Contains(out, "Inconsistency detected") {
		t.Fatalf("missing verdict in\n%s", out)
	}
	if strings.Count(out, "❌") != 2 {
		t.Fatalf("expected timestamp and commitment marks in\n%s", out)
	}
}

func TestTextOmitsFailedHeaders(t *testing.T) {
	report := comparedReport(t, sampleHeader())
	report.Secondary = nil
	report.Comparison = nil
	out := Text(NewView(report, errors.New("secondary: encode hash: got 31 bytes, want 32")))

	if strings.Contains(out, "SECONDARY") || strings.Contains(out, "Cross-check") {
		t.Fatalf("failed provider must not be rendered\n%s", out)
	}
	if strings.Count(out, "Header Commitment") != 1 {
		t.Fatalf("expected only the primary commitment\n%s", out)
	}
	if !strings.Contains(out, "❌ secondary: encode hash") {
		t.Fatalf("missing error line\n%s", out)
	}
}

type crossCheckJSON struct {
	Fields     map[string]bool `json:"fields"`
	Commitment bool            `json:"commitment"`
	Consistent bool            `json:"consistent"`
}

func TestWriteJSON(t *testing.T) {
	b := sampleHeader()
	b.StateRoot = bytes.Repeat([]byte{1}, 32)
	var buf bytes.Buffer
	if err := Write(&buf, "json", NewView(comparedReport(t, b), nil)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var decoded struct {
		BlockTag   string         `json:"block_tag"`
		Primary    BundleView     `json:"primary"`
		CrossCheck crossCheckJSON `json:"cross_check"`
		ElapsedMS  int64          `json:"elapsed_ms"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if decoded.BlockTag != "18000000" || decoded.ElapsedMS != 1500 {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
	if len(decoded.CrossCheck.Fields) != domain.FieldCount {
		t.Fatalf("expected %d fields, got %v", domain.FieldCount, decoded.CrossCheck.Fields)
	}
	if decoded.CrossCheck.Fields["stateRoot"] || !decoded.CrossCheck.Fields["timestamp"] {
		t.Fatalf("unexpected field flags %v", decoded.CrossCheck.Fields)
	}
	if decoded.CrossCheck.Commitment || decoded.CrossCheck.Consistent {
		t.Fatalf("expected mismatch verdict")
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "yaml", View{}); err == nil {
		t.Fatalf("expected error")
	}
}
