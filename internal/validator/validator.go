// Package validator normalizes the identification codes carried on a student
// record. CPF, INEP and NIS are semantically distinct documents, but the
// target system applies one rule to all three: strip formatting, keep the
// first eleven digits, require exactly eleven.
package validator

import (
	"fmt"
	"strings"
)

// Kind identifies which record field a raw value belongs to. The string
// value doubles as the input's name attribute on the edit form.
type Kind string

const (
	CPF  Kind = "CPF"
	INEP Kind = "INEP"
	NIS  Kind = "NIS"
)

// Status classifies a normalization result.
type Status int

const (
	// Absent means the source did not supply the field at all. The caller
	// leaves the form input untouched; this is not a validation failure.
	Absent Status = iota
	// Accepted means Digits holds the normalized eleven-digit value.
	Accepted
	// Rejected means a value was supplied but does not normalize to eleven
	// digits. The field is skipped and the record can still succeed.
	Rejected
)

// Result is the outcome of normalizing one raw field value.
type Result struct {
	Status Status
	Digits string
	Reason string
}

// Normalize maps a raw field value to its normalized form. Formatting
// characters are stripped and anything past the eleventh digit is dropped,
// mirroring the input mask on the target form. Deterministic, no side
// effects.
func Normalize(kind Kind, raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Status: Absent}
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 11 {
				break
			}
		}
	}

	digits := b.String()
	if len(digits) != 11 {
		return Result{
			Status: Rejected,
			Reason: fmt.Sprintf("%s %q normalizes to %d digit(s), want 11", kind, raw, len(digits)),
		}
	}
	return Result{Status: Accepted, Digits: digits}
}
