// Package attribute extracts the key/value attributes curators write at the
// top of an event description.
//
// A description such as
//
//	Leads: Alice, Bob
//	Signup Required: Yes
//
//	Bring consumables.
//
// yields the attributes leads and signup_required, and the residual
// description "Bring consumables.".
package attribute

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DescriptionKey is the reserved key holding the residual description.
const DescriptionKey = "description"

// Set is the immutable result of Parse.
type Set struct {
	attrs       map[string]string
	description string
}

// Get returns the value stored under key, which must already be normalized.
func (s Set) Get(key string) (string, bool) {
	if key == DescriptionKey {
		return s.description, true
	}
	v, ok := s.attrs[key]
	return v, ok
}

// Description returns the free text found after the attributes.
func (s Set) Description() string {
	return s.description
}

// Len returns the number of attributes, not counting the description.
func (s Set) Len() int {
	return len(s.attrs)
}

// Attributes returns a copy of the attributes, without the description.
func (s Set) Attributes() map[string]string {
	m := make(map[string]string, len(s.attrs))
	for k, v := range s.attrs {
		m[k] = v
	}
	return m
}

type state int

const (
	readingAttributes state = iota
	readingDescription
)

type parser struct {
	state       state
	attrs       map[string]string
	description strings.Builder
}

// step feeds one line to the parser. A line without a colon, blank lines
// included, ends the attributes and is the first line of the description.
func (p *parser) step(line string) {
	if p.state == readingAttributes {
		key, value, found := strings.Cut(line, ":")
		if found {
			p.attrs[Normalize(key)] = strings.TrimSpace(value)
			return
		}
		p.state = readingDescription
	}
	p.description.WriteString(line)
	p.description.WriteByte('\n')
}

func (p *parser) set() Set {
	attrs := p.attrs
	delete(attrs, DescriptionKey)
	return Set{
		attrs:       attrs,
		description: strings.TrimSpace(p.description.String()),
	}
}

// Parse reads the attributes out of a raw, possibly HTML, description.
func Parse(raw string) Set {
	p := &parser{
		state: readingAttributes,
		attrs: make(map[string]string),
	}
	text := strings.ReplaceAll(Text(raw), "\r\n", "\n")
	if text == "" {
		return p.set()
	}
	for _, line := range strings.Split(text, "\n") {
		p.step(line)
	}
	return p.set()
}

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// Text turns line break markup into new lines and strips every other tag,
// unescaping entities.
func Text(raw string) string {
	raw = lineBreak.ReplaceAllString(raw, "\n")

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// Normalize turns a human typed label into a key: "Signup Required",
// "SignupRequired" and "signup-required" all become "signup_required".
// Normalizing a key again returns it unchanged.
func Normalize(label string) string {
	runes := []rune(strings.TrimSpace(label))

	var sb strings.Builder
	pendingSep := false
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = sb.Len() > 0
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				pendingSep = sb.Len() > 0
			}
		}
		if pendingSep {
			sb.WriteByte('_')
			pendingSep = false
		}
		sb.WriteRune(r)
	}
	return cases.Lower(language.Und).String(sb.String())
}
