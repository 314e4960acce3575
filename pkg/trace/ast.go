package trace

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed capture file.
type File struct {
	Records []*Record `@@*`
}

// Record is one front-end event line.
// Example: DR_TDO 120 440 0b1010 @ 430:440 420:430 ...
type Record struct {
	Pos lexer.Position

	Command string   `@Ident`
	Start   int64    `@Int`
	End     int64    `@Int`
	Bits    string   `( @Bits`
	Spans   []string `  ( At @Span+ )?`
	State   string   `| @Ident )`
}
