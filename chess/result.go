/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chess

import (
	"fmt"
	"strings"
)

var resultCodes = map[string]float64{
	"w":       Win,
	"win":     Win,
	"1":       Win,
	"1-0":     Win,
	"l":       Loss,
	"loss":    Loss,
	"0":       Loss,
	"0-1":     Loss,
	"d":       Draw,
	"draw":    Draw,
	"0.5":     Draw,
	".5":      Draw,
	"½":       Draw,
	"1/2-1/2": Draw,
	"½-½":     Draw,
}

// ParseResult converts a result code as written on a results sheet
// ("W", "Loss", "1-0", "½", ...) into white's score.
func ParseResult(code string) (float64, error) {
	r, ok := resultCodes[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown result code %q", ErrInvalidGame, code)
	}
	return r, nil
}

// ResultString is the inverse of ParseResult using the short W/D/L codes.
func ResultString(r float64) string {
	switch r {
	case Win:
		return "W"
	case Draw:
		return "D"
	case Loss:
		return "L"
	}
	return fmt.Sprintf("?%v", r)
}
