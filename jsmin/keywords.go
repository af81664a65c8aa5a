package jsmin

// regexPrecedingKeywords is the keyword table: the set of identifier
// lexemes that syntactically permit a following regular expression
// literal (as opposed to the division operator). Everything else,
// including identifiers that happen to be other JavaScript keywords
// such as "var" or "function", is classified as an ordinary
// NAME_NUMBER token.
var regexPrecedingKeywords = map[string]bool{
	"return":     true,
	"throw":      true,
	"typeof":     true,
	"in":         true,
	"instanceof": true,
	"new":        true,
	"delete":     true,
	"void":       true,

	// control-flow keywords
	"if":       true,
	"else":     true,
	"do":       true,
	"while":    true,
	"for":      true,
	"switch":   true,
	"case":     true,
	"break":    true,
	"continue": true,
	"try":      true,
	"catch":    true,
	"finally":  true,
}

// canPrecedeRegex reports whether lexeme is a keyword that
// syntactically permits a following regular expression literal.
func canPrecedeRegex(lexeme string) bool {
	return regexPrecedingKeywords[lexeme]
}
