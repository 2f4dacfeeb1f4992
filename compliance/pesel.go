/*
pesel.go - National identity code validation and decoding

PURPOSE:
  Validates the 11-digit national identity code (PESEL) checksum and
  decodes the birth date and sex encoded in it.

ENCODING:
  Digits 0-1: birth year within century
  Digits 2-3: birth month, century-shifted:
              +80 -> 1800s, +60 -> 2200s, +40 -> 2100s, +20 -> 2000s,
              unshifted -> 1900s
  Digits 4-5: birth day
  Digits 6-9: serial; digit 9 carries sex parity
  Digit 10:   checksum over the first ten digits with weights
              [1,3,7,9,1,3,7,9,1,3]

SEX PARITY:
  The parity digit's convention (which parity maps to which sex) is a
  configuration point: Decode applies DefaultSexConvention, DecodeWith
  accepts an explicit convention.

PURITY:
  No I/O, no normalization side channels, no hashing. The persistence
  layer derives its own non-reversible hash for duplicate lookup; this
  file only computes and validates.

SEE ALSO:
  - validate.go: Field-scoped validation wrapping these functions
*/
package compliance

import "time"

// checksumWeights apply to the first ten digits; the eleventh digit is
// the check digit itself.
var checksumWeights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// Identity is the information decoded from a valid identity code.
// Immutable once parsed.
type Identity struct {
	Code      string
	BirthDate Date
	Sex       Sex
}

// SexConvention maps the parity of the code's 10th digit to a sex label.
type SexConvention struct {
	Even Sex
	Odd  Sex
}

// DefaultSexConvention follows the registry convention: even parity
// digit for women, odd for men.
var DefaultSexConvention = SexConvention{Even: Female, Odd: Male}

// ValidateChecksum returns true iff the code is exactly 11 ASCII digits
// and the check digit satisfies (10 - weighted sum mod 10) mod 10.
func ValidateChecksum(code string) bool {
	digits, ok := identityDigits(code)
	if !ok {
		return false
	}
	sum := 0
	for i, w := range checksumWeights {
		sum += digits[i] * w
	}
	check := (10 - sum%10) % 10
	return digits[10] == check
}

// Decode parses a checksum-valid identity code into birth date and sex
// using DefaultSexConvention. Returns ErrInvalidIdentityCode for codes
// that are malformed or fail the checksum. Decode does not enforce
// calendar validity of the encoded day/month combination.
func Decode(code string) (Identity, error) {
	return DecodeWith(code, DefaultSexConvention)
}

// DecodeWith is Decode with an explicit sex convention.
func DecodeWith(code string, conv SexConvention) (Identity, error) {
	if !ValidateChecksum(code) {
		return Identity{}, ErrInvalidIdentityCode
	}
	digits, _ := identityDigits(code)

	year := digits[0]*10 + digits[1]
	month := digits[2]*10 + digits[3]
	day := digits[4]*10 + digits[5]

	century := 1900
	switch {
	case month > 80:
		century, month = 1800, month-80
	case month > 60:
		century, month = 2200, month-60
	case month > 40:
		century, month = 2100, month-40
	case month > 20:
		century, month = 2000, month-20
	}

	sex := conv.Odd
	if digits[9]%2 == 0 {
		sex = conv.Even
	}

	// The encoded day/month are combined as-is; codes encoding a day that
	// does not exist in the month are not rejected here. Callers wanting
	// calendar-validity checks layer them on top.
	return Identity{
		Code:      code,
		BirthDate: NewDate(century+year, time.Month(month), day),
		Sex:       sex,
	}, nil
}

func identityDigits(code string) ([11]int, bool) {
	var digits [11]int
	if len(code) != 11 {
		return digits, false
	}
	for i := 0; i < 11; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return digits, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}
