package common

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// OnlyDigits strips every non-digit rune, the normalization applied to cpf
// and phone before they leave the client.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCpf checks the CPF checksum. Accepts punctuated ("529.982.247-25")
// and bare ("52998224725") forms. Repdigit sequences like 111.111.111-11
// satisfy the arithmetic but are rejected, matching the registry rules.
func ValidCpf(cpf string) bool {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if int(digits[9]-'0') != cpfCheckDigit(digits, 9) {
		return false
	}
	return int(digits[10]-'0') == cpfCheckDigit(digits, 10)
}

// cpfCheckDigit computes the verification digit over the first n digits,
// weighted n+1 down to 2.
func cpfCheckDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// RegisterCpfValidation wires the "cpf" struct tag used by the payment
// request models.
func RegisterCpfValidation(validate *validator.Validate) error {
	return validate.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidCpf(fl.Field().String())
	})
}
