package check

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/varalys/typoscan/internal/config"
)

// Token is a slice of a line. Offset is in bytes from the start of the line.
type Token struct {
	Text   string
	Offset int
}

var hexLiteral = regexp.MustCompile(`^0[xX][0-9a-fA-F_]+$`)

// minHashLen is the shortest run of hex digits treated as a hash.
const minHashLen = 16

// Identifiers returns the identifiers in line that the policy does not
// exempt. An identifier is a run of letters, digits and underscores.
func Identifiers(line []byte, p *config.Policy) []Token {
	ignored := ignoredRanges(line, p.IgnoreRe)
	var out []Token
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRune(line[i:])
		if !isIdentRune(r) {
			i += size
			continue
		}
		start := i
		for i < len(line) {
			r, size = utf8.DecodeRune(line[i:])
			if !isIdentRune(r) {
				break
			}
			i += size
		}
		tok := Token{Text: string(line[start:i]), Offset: start}
		if overlaps(ignored, start, i) {
			continue
		}
		if p.IgnoreHex && isHex(tok.Text) {
			continue
		}
		if !p.IdentifierLeadingDigits {
			tok = trimLeadingDigits(tok)
		}
		if tok.Text == "" || !hasLetter(tok.Text) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Words splits an identifier into words on underscores, digits and case
// transitions. Offsets stay relative to the identifier's line.
func Words(ident Token) []Token {
	var out []Token
	s := ident.Text
	runes := []rune(s)
	offsets := make([]int, len(runes)+1)
	for i, b := 0, 0; i < len(runes); i++ {
		offsets[i] = b
		b += utf8.RuneLen(runes[i])
		offsets[i+1] = b
	}
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			out = append(out, Token{Text: s[offsets[start]:offsets[end]], Offset: ident.Offset + offsets[start]})
		}
		start = -1
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func trimLeadingDigits(t Token) Token {
	i := 0
	for i < len(t.Text) && t.Text[i] >= '0' && t.Text[i] <= '9' {
		i++
	}
	return Token{Text: t.Text[i:], Offset: t.Offset + i}
}

// isHex reports whether s is a hex literal or looks like a hash.
func isHex(s string) bool {
	if hexLiteral.MatchString(s) {
		return true
	}
	if len(s) < minHashLen {
		return false
	}
	digit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digit = true
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return digit
}

type span struct{ start, end int }

func ignoredRanges(line []byte, res []*regexp.Regexp) []span {
	var out []span
	for _, re := range res {
		for _, loc := range re.FindAllIndex(line, -1) {
			out = append(out, span{loc[0], loc[1]})
		}
	}
	return out
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}
