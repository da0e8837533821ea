package check

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/varalys/typoscan/internal/config"
)

// builtin maps common misspellings, lowercased, to their corrections.
var builtin = map[string][]string{
	"abotu":        {"about"},
	"acccess":      {"access"},
	"accomodate":   {"accommodate"},
	"acheive":      {"achieve"},
	"adress":       {"address"},
	"agian":        {"again"},
	"alot":         {"a lot"},
	"alredy":       {"already"},
	"ammount":      {"amount"},
	"arguement":    {"argument"},
	"asume":        {"assume"},
	"becuase":      {"because"},
	"begining":     {"beginning"},
	"beleive":      {"believe"},
	"calender":     {"calendar"},
	"commited":     {"committed"},
	"comming":      {"coming"},
	"completly":    {"completely"},
	"concious":     {"conscious"},
	"defualt":      {"default"},
	"definately":   {"definitely"},
	"dependant":    {"dependent"},
	"desciption":   {"description"},
	"destory":      {"destroy"},
	"diffrent":     {"different"},
	"enviroment":   {"environment"},
	"existance":    {"existence"},
	"existant":     {"existent"},
	"explicitely":  {"explicitly"},
	"familar":      {"familiar"},
	"finaly":       {"finally"},
	"foriegn":      {"foreign"},
	"fucntion":     {"function"},
	"funtion":      {"function"},
	"garantee":     {"guarantee"},
	"goverment":    {"government"},
	"grammer":      {"grammar"},
	"happend":      {"happened"},
	"independant":  {"independent"},
	"initalize":    {"initialize"},
	"intial":       {"initial"},
	"lenght":       {"length"},
	"maintainance": {"maintenance"},
	"neccessary":   {"necessary"},
	"occured":      {"occurred"},
	"occurence":    {"occurrence"},
	"paramter":     {"parameter"},
	"persistant":   {"persistent"},
	"posible":      {"possible"},
	"prefered":     {"preferred"},
	"proccess":     {"process"},
	"recieve":      {"receive"},
	"recieved":     {"received"},
	"recomend":     {"recommend"},
	"refered":      {"referred"},
	"retreive":     {"retrieve"},
	"seperate":     {"separate"},
	"seperator":    {"separator"},
	"sucess":       {"success"},
	"succesful":    {"successful"},
	"teh":          {"the"},
	"tehm":         {"them"},
	"thier":        {"their"},
	"threshhold":   {"threshold"},
	"tomorow":      {"tomorrow"},
	"truely":       {"truly"},
	"untill":       {"until"},
	"usefull":      {"useful"},
	"wich":         {"which", "witch"},
	"wierd":        {"weird"},
	"writting":     {"writing"},
}

// correction is the verdict on one token.
type correction struct {
	typo        bool
	corrections []string
}

var valid = correction{}

// correctIdentifier consults extend-identifiers for the whole identifier.
// known is false when the identifier must be checked word by word.
func correctIdentifier(ident string, p *config.Policy) (c correction, known bool) {
	v, ok := p.Identifiers[ident]
	if !ok {
		return valid, false
	}
	switch v {
	case ident:
		return valid, true
	case "":
		return correction{typo: true}, true
	default:
		return correction{typo: true, corrections: []string{v}}, true
	}
}

// correctWord consults extend-words and then the built-in table.
func correctWord(word string, p *config.Policy) correction {
	lower := strings.ToLower(word)
	if v, ok := p.Words[lower]; ok {
		switch strings.ToLower(v) {
		case lower:
			return valid
		case "":
			return correction{typo: true}
		default:
			return correction{typo: true, corrections: []string{matchCase(v, word)}}
		}
	}
	fixes, ok := builtin[lower]
	if !ok {
		return valid
	}
	out := make([]string, len(fixes))
	for i, f := range fixes {
		out[i] = matchCase(f, word)
	}
	return correction{typo: true, corrections: out}
}

// matchCase gives fix the case style of typo: all caps, title or as is.
func matchCase(fix, typo string) string {
	first, _ := utf8.DecodeRuneInString(typo)
	switch {
	case utf8.RuneCountInString(typo) > 1 && strings.ToUpper(typo) == typo:
		return strings.ToUpper(fix)
	case unicode.IsUpper(first):
		r, size := utf8.DecodeRuneInString(fix)
		return string(unicode.ToUpper(r)) + fix[size:]
	default:
		return fix
	}
}

// found is a typo located in a line.
type found struct {
	Token
	correction
}

// findTypos returns the typos in line.
func findTypos(line []byte, p *config.Policy) []found {
	var out []found
	for _, ident := range Identifiers(line, p) {
		if c, known := correctIdentifier(ident.Text, p); known {
			if c.typo {
				out = append(out, found{ident, c})
			}
			continue
		}
		for _, w := range Words(ident) {
			if c := correctWord(w.Text, p); c.typo {
				out = append(out, found{w, c})
			}
		}
	}
	return out
}

// fixLine applies every single-correction typo to line and returns the
// result together with the typos that could not be fixed.
func fixLine(line []byte, typos []found) ([]byte, []found) {
	var (
		fixable   []found
		unfixable []found
	)
	for _, t := range typos {
		if len(t.corrections) == 1 {
			fixable = append(fixable, t)
		} else {
			unfixable = append(unfixable, t)
		}
	}
	if len(fixable) == 0 {
		return line, unfixable
	}
	var b strings.Builder
	last := 0
	for _, t := range fixable {
		b.Write(line[last:t.Offset])
		b.WriteString(t.corrections[0])
		last = t.Offset + len(t.Text)
	}
	b.Write(line[last:])
	return []byte(b.String()), unfixable
}
