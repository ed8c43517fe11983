package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/airconsole/internal/common"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 12

// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected, not truncated.
const MaxPasswordBytes = 72

const msgPasswordTooLong = "Le mot de passe ne doit pas dépasser 72 octets"

// PasswordSymbols is the set of characters that satisfy the special-character rule.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PolicyViolation carries the user-facing reason a password was rejected.
// It matches common.ErrWeakPassword under errors.Is.
type PolicyViolation struct {
	Message string
}

func (e *PolicyViolation) Error() string { return e.Message }

func (e *PolicyViolation) Is(target error) bool { return target == common.ErrWeakPassword }

type passwordRule struct {
	ok      func(string) bool
	message string
}

// passwordRules are evaluated in order; the first failing rule is reported.
var passwordRules = []passwordRule{
	{
		ok:      func(p string) bool { return utf8.RuneCountInString(p) >= MinPasswordLength },
		message: "Le mot de passe doit contenir au moins 12 caractères",
	},
	{
		ok:      func(p string) bool { return containsRange(p, 'A', 'Z') },
		message: "Le mot de passe doit contenir au moins une majuscule",
	},
	{
		ok:      func(p string) bool { return containsRange(p, 'a', 'z') },
		message: "Le mot de passe doit contenir au moins une minuscule",
	},
	{
		ok:      func(p string) bool { return containsRange(p, '0', '9') },
		message: "Le mot de passe doit contenir au moins un chiffre",
	},
	{
		ok:      func(p string) bool { return strings.ContainsAny(p, PasswordSymbols) },
		message: "Le mot de passe doit contenir au moins un caractère spécial (!@#$%^&*, etc.)",
	},
	{
		ok:      func(p string) bool { return len(p) <= MaxPasswordBytes },
		message: msgPasswordTooLong,
	},
}

// ValidatePassword returns nil when password satisfies every rule, otherwise a
// *PolicyViolation describing the first rule it breaks.
func ValidatePassword(password string) error {
	for _, r := range passwordRules {
		if !r.ok(password) {
			return &PolicyViolation{Message: r.message}
		}
	}
	return nil
}

// ASCII letters and digits only; accented capitals do not count.
func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
