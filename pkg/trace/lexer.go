package trace

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TraceLexer tokenises capture files. Line breaks carry no meaning; every
// record starts with its command word.
var TraceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	// 0b-prefixed bit strings, MSB first
	{Name: "Bits", Pattern: `0b[01]+`},

	// start:end sample spans
	{Name: "Span", Pattern: `[0-9]+:[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "At", Pattern: `@`},

	// Command words and TAP state names (TEST-LOGIC-RESET, RUN-TEST/IDLE)
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_/\-]*`},
})
