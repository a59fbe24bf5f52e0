package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hdrcommit/internal/domain"
)

var fieldLabels = [domain.FieldCount]string{
	domain.FieldChainID:          "Chain IDs match:",
	domain.FieldNumber:           "Block numbers match:",
	domain.FieldHash:             "Block hashes match:",
	domain.FieldParentHash:       "Parent hashes match:",
	domain.FieldStateRoot:        "stateRoot matches:",
	domain.FieldReceiptsRoot:     "receiptsRoot matches:",
	domain.FieldTransactionsRoot: "txRoot matches:",
	domain.FieldTimestamp:        "Timestamps match:",
}

// Write renders view in format ("text" or "json").
func Write(w io.Writer, format string, view View) error {
	switch format {
	case "json":
		return WriteJSON(w, view)
	case "text", "":
		_, err := io.WriteString(w, Text(view))
		return err
	}
	return fmt.Errorf("unknown output format: %s (supported: text, json)", format)
}

func WriteJSON(w io.Writer, view View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// Text renders the human report: one block per provider, then the
// cross-check table and a verdict when two providers were compared.
func Text(view View) string {
	var sb strings.Builder
	for _, bundle := range []*BundleView{view.Primary, view.Secondary} {
		if bundle != nil {
			writeBundle(&sb, bundle)
		}
	}
	if view.CrossCheck != nil {
		writeCrossCheck(&sb, view.CrossCheck)
	}
	if view.Error != "" {
		fmt.Fprintf(&sb, "❌ %s\n", view.Error)
	}
	fmt.Fprintf(&sb, "⏱️  Elapsed: %.2fs\n", float64(view.ElapsedMS)/1000)
	return sb.String()
}

func writeBundle(sb *strings.Builder, b *BundleView) {
	fmt.Fprintf(sb, "--- %s ---\n", b.Label)
	fmt.Fprintf(sb, "🌐 Network: %s (chainId %d)\n", b.Network, b.ChainID)
	fmt.Fprintf(sb, "🔢 Block: %d  ⏱️ %s UTC\n", b.Number, b.TimestampUTC)
	fmt.Fprintf(sb, "🔗 Hash: %s\n", b.Hash)
	fmt.Fprintf(sb, "↩️  Parent: %s\n", b.ParentHash)
	fmt.Fprintf(sb, "🌳 stateRoot: %s\n", b.StateRoot)
	fmt.Fprintf(sb, "🧾 receiptsRoot: %s\n", b.ReceiptsRoot)
	fmt.Fprintf(sb, "📦 txRoot: %s\n", b.TransactionsRoot)
	fmt.Fprintf(sb, "🧩 Header Commitment: %s\n", b.Commitment)
}

func writeCrossCheck(sb *strings.Builder, c *CrossCheckView) {
	sb.WriteString("--- Cross-check ---\n")
	for _, field := range domain.Fields {
		fmt.Fprintf(sb, "%-22s %s\n", fieldLabels[field], mark(c.Fields[field]))
	}
	fmt.Fprintf(sb, "%-22s %s\n", "Commitments match:", mark(c.Commitment))
	if c.Consistent {
		sb.WriteString("🔒 Soundness confirmed across providers.\n")
	} else {
		sb.WriteString("⚠️  Inconsistency detected: check providers, block tag, or try again.\n")
	}
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
