package model

import "testing"

func TestEncodeBodyRangesEmpty(t *testing.T) {
	encoded, err := EncodeBodyRanges(nil)
	if err != nil {
		t.Fatalf("encode nil: %v", err)
	}
	if encoded != "" {
		t.Fatalf("encoded nil to %q, want empty string", encoded)
	}

	decoded, err := DecodeBodyRanges("")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if decoded != nil {
		t.Fatalf("decoded empty to %v, want nil", decoded)
	}
}

func TestBodyRangesRoundTrip(t *testing.T) {
	ranges := []BodyRange{
		{Start: 0, Length: 4, MentionUuid: "U1"},
		{Start: 10, Length: 6, Style: "italic"},
	}

	encoded, err := EncodeBodyRanges(ranges)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeBodyRanges(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("decoded %d ranges, want 2", len(decoded))
	}
	if decoded[0].MentionUuid != "U1" || decoded[1].Style != "italic" {
		t.Fatalf("decoded %+v", decoded)
	}
}

func TestDecodeBodyRangesCorrupt(t *testing.T) {
	if _, err := DecodeBodyRanges("{not json"); err == nil {
		t.Fatal("corrupt input decoded without error")
	}
}
