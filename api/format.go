/*
format.go - Display formatting for API responses

PURPOSE:
  Human-readable rendering of amounts, dates, and working-time
  fractions for response DTOs. Raw values always travel alongside the
  display strings; clients that compute should never parse these.

CONVENTIONS:
  Amounts:       Polish notation - space thousands separator, comma
                 decimal mark, "zł" suffix ("12 345,67 zł")
  Dates:         ISO 8601 ("2025-03-01")
  Working time:  Common fractions where exact ("1/2 etatu"), decimal
                 otherwise

SEE ALSO:
  - dto.go: The response types carrying these strings
*/
package api

import (
	"fmt"
	"strings"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/shopspring/decimal"
)

// FormatPLN renders an amount in Polish currency notation.
func FormatPLN(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	whole, frac := parts[0], parts[1]

	// Group the integer part in threes from the right.
	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}

	out := fmt.Sprintf("%s,%s zł", grouped.String(), frac)
	if negative {
		return "-" + out
	}
	return out
}

// FormatDate renders a date as ISO 8601, or "" for nil.
func FormatDate(d *compliance.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// commonFractions maps exact working-time values to the forms used on
// Polish employment contracts.
var commonFractions = map[string]string{
	"1":     "pełny etat",
	"0.75":  "3/4 etatu",
	"0.5":   "1/2 etatu",
	"0.25":  "1/4 etatu",
	"0.125": "1/8 etatu",
}

// FormatWorkingTime renders a working-time fraction the way it appears
// on a contract.
func FormatWorkingTime(fraction decimal.Decimal) string {
	if label, ok := commonFractions[fraction.String()]; ok {
		return label
	}
	return fmt.Sprintf("%s etatu", fraction.String())
}

// MaskIdentityCode hides the serial and check digits, keeping the birth
// date prefix visible for recognition.
func MaskIdentityCode(code string) string {
	if len(code) != 11 {
		return "***********"
	}
	return code[:6] + "*****"
}
