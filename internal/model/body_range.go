package model

import "encoding/json"

// BodyRange marks a span of draft text carrying a mention or a text style.
// Offsets are in UTF-16 code units to match what clients send.
type BodyRange struct {
	Start       int    `json:"start"`
	Length      int    `json:"length"`
	MentionUuid string `json:"mention_uuid,omitempty"`
	Style       string `json:"style,omitempty"` // bold, italic, spoiler, ...
}

// EncodeBodyRanges serializes ranges for the message_draft_body_ranges
// column. An empty slice encodes to the empty string so the column stays
// NULL-ish for drafts without formatting.
func EncodeBodyRanges(ranges []BodyRange) (string, error) {
	if len(ranges) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(ranges)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeBodyRanges parses the column written by EncodeBodyRanges.
func DecodeBodyRanges(raw string) ([]BodyRange, error) {
	if raw == "" {
		return nil, nil
	}
	var ranges []BodyRange
	if err := json.Unmarshal([]byte(raw), &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}
