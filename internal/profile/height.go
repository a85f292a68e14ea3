package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidHeight is returned when height text is present but unreadable.
var ErrInvalidHeight = errors.New("invalid height")

const maxHeightInches = 108

// Height is a structured height in inches. The zero value means "not given".
type Height struct {
	Inches float64
}

// IsZero reports whether no height was supplied.
func (h Height) IsZero() bool { return h.Inches == 0 }

// Foot and inch marks include the curly quotes and primes mobile keyboards
// substitute for ' and ".
var (
	feetInches = regexp.MustCompile(`^(\d+)\s*(?:'|’|′|ft|feet)\s*(\d+(?:\.\d+)?)?\s*(?:"|''|”|″|in|inches)?$`)
	bareInches = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:"|”|″|in|inches)?$`)
)

// ParseHeight reads `5'10`, `5' 10"`, `5ft 10in` or a bare inch count.
// Empty input yields the zero Height and no error.
func ParseHeight(s string) (Height, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return Height{}, nil
	}
	if m := feetInches.FindStringSubmatch(t); m != nil {
		feet, _ := strconv.Atoi(m[1])
		var inches float64
		if m[2] != "" {
			inches, _ = strconv.ParseFloat(m[2], 64)
		}
		if inches >= 12 {
			return Height{}, fmt.Errorf("%w: %q has %v inches past the foot", ErrInvalidHeight, s, inches)
		}
		return checked(float64(feet)*12+inches, s)
	}
	if m := bareInches.FindStringSubmatch(t); m != nil {
		inches, _ := strconv.ParseFloat(m[1], 64)
		return checked(inches, s)
	}
	return Height{}, fmt.Errorf("%w: %q", ErrInvalidHeight, s)
}

func checked(inches float64, src string) (Height, error) {
	if inches <= 0 || inches > maxHeightInches {
		return Height{}, fmt.Errorf("%w: %q is out of range", ErrInvalidHeight, src)
	}
	return Height{Inches: inches}, nil
}

// UnmarshalJSON accepts a feet'inches string or a number of inches.
func (h *Height) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*h = Height{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseHeight(s)
		if err != nil {
			return err
		}
		*h = parsed
		return nil
	}
	var inches float64
	if err := json.Unmarshal(b, &inches); err != nil {
		return err
	}
	if inches == 0 {
		*h = Height{}
		return nil
	}
	parsed, err := checked(inches, string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func (h Height) MarshalJSON() ([]byte, error) {
	if h.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(h.Inches)
}

func (h Height) String() string {
	if h.IsZero() {
		return "unknown"
	}
	feet := int(h.Inches) / 12
	inches := h.Inches - float64(feet*12)
	return fmt.Sprintf("%d'%s", feet, strconv.FormatFloat(inches, 'f', -1, 64))
}
