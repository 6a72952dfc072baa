package graph

import (
	"go/token"
	"unicode"
)

// reservedWords lists keywords that flow definitions have historically
// rejected as argument keys, in addition to Go keywords.
var reservedWords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "class": true, "def": true,
	"del": true, "elif": true, "except": true, "finally": true, "from": true,
	"global": true, "in": true, "is": true, "lambda": true, "nonlocal": true,
	"not": true, "or": true, "pass": true, "raise": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// IsValidIdentifier reports whether key starts with a letter or underscore,
// continues with letters, digits, combining marks or connector punctuation,
// and is not a reserved word. Letters and digits are not limited to ASCII.
func IsValidIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i == 0:
			return false
		case unicode.IsDigit(r), unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc):
		default:
			return false
		}
	}
	return !token.IsKeyword(key) && !reservedWords[key]
}
