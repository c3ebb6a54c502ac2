package lexer

import (
	"strconv"

	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// scanNumber accepts decimal, octal (leading 0) and hexadecimal (0x)
// literals. Identifier characters glued to the digits make the literal
// malformed.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'x', 'X':
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		default:
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	} else {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if _, err := ParseInt(text); err != nil {
		lx.errLex(diag.LexBadNumber, sp, "malformed integer literal "+strconv.Quote(text))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}

// ParseInt converts a SysY integer literal to its value. Literals up to
// 2147483648 are accepted so that -2147483648 can be written; the value
// wraps to int32 the way the target does.
func ParseInt(text string) (int32, error) {
	base := 10
	digits := text
	switch {
	case len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X"):
		base, digits = 16, text[2:]
	case len(text) > 1 && text[0] == '0':
		base, digits = 8, text[1:]
		for i := 0; i < len(digits); i++ {
			if !isOct(digits[i]) {
				return 0, strconv.ErrSyntax
			}
		}
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, err
	}
	if v > 1<<31 {
		return 0, strconv.ErrRange
	}
	return int32(uint32(v)), nil // #nosec G115 -- two's complement wrap is intended
}
