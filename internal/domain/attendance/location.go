package attendance

import (
	"encoding/json"
	"fmt"
)

// Location is the geo payload captured on a punch.
type Location struct {
	Address   string  `json:"address" validate:"omitempty,max=500"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// EncodeLocation serializes loc for storage. A nil location stays nil.
func EncodeLocation(loc *Location) (*string, error) {
	if loc == nil {
		return nil, nil
	}
	b, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}
	s := string(b)
	return &s, nil
}

// DecodeLocation parses a stored location. Malformed text is a data
// integrity failure and yields ErrCorruptLocation.
func DecodeLocation(raw *string) (*Location, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var loc Location
	if err := json.Unmarshal([]byte(*raw), &loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLocation, err)
	}
	return &loc, nil
}
