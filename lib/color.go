package lib

import (
	"fmt"
	"strings"
)

// SignatureColor forces the ink color used for signatures.
type SignatureColor string

// Supported signature colors.
const (
	SignatureColorBlue  SignatureColor = "blue"
	SignatureColorBlack SignatureColor = "black"
	SignatureColorRed   SignatureColor = "red"
)

// String returns the wire name of the color.
func (c SignatureColor) String() string {
	return string(c)
}

// ParseSignatureColor parses a color name, ignoring case.
func ParseSignatureColor(s string) (SignatureColor, error) {
	switch c := SignatureColor(strings.ToLower(strings.TrimSpace(s))); c {
	case SignatureColorBlue, SignatureColorBlack, SignatureColorRed:
		return c, nil
	}
	return "", fmt.Errorf("unknown signature color %q", s)
}
