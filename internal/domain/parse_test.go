package domain

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want uint64
	}{
		{name: "hex", raw: "0x112a880", want: 18000000},
		{name: "upper hex", raw: "0X112A880", want: 18000000},
		{name: "leading zeros", raw: "0x0000000001", want: 1},
		{name: "decimal", raw: "1700000000", want: 1700000000},
		{name: "max", raw: "0xffffffffffffffff", want: ^uint64(0)},
		{name: "zero", raw: "0x0", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuantity(FieldNumber, tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestParseQuantityRejects(t *testing.T) {
	for _, raw := range []string{"", "0x", "0xzz", "-1", "0x10000000000000000", "18446744073709551616"} {
		_, err := ParseQuantity(FieldTimestamp, raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("expected EncodingError for %q, got %T", raw, err)
		}
		if encErr.Field != FieldTimestamp {
			t.Fatalf("expected field timestamp, got %s", encErr.Field)
		}
		if !errors.Is(err, ErrEncoding) {
			t.Fatalf("expected errors.Is(err, ErrEncoding) for %q", raw)
		}
	}
}

func TestParseHash32(t *testing.T) {
	full := "0x" + strings.Repeat("ab", 32)
	got, err := ParseHash32(FieldHash, full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != HashLength || got[0] != 0xab || got[31] != 0xab {
		t.Fatalf("unexpected decode: %x", got)
	}

	upper, err := ParseHash32(FieldHash, strings.ToUpper(strings.Repeat("ab", 32)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(upper, got) {
		t.Fatalf("case and prefix should not matter: %x vs %x", upper, got)
	}
}

func TestParseHash32LeftPadsShortValues(t *testing.T) {
	got, err := ParseHash32(FieldStateRoot, "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := make([]byte, HashLength)
	want[30] = 0x0a
	want[31] = 0xbc
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %x, got %x", want, got)
	}
}

func TestParseHash32Rejects(t *testing.T) {
	for _, raw := range []string{"", "0x", "0xgg", "0x" + strings.Repeat("00", 33)} {
		_, err := ParseHash32(FieldReceiptsRoot, raw)
		if !errors.Is(err, ErrEncoding) {
			t.Fatalf("expected encoding error for %q, got %v", raw, err)
		}
	}
}
