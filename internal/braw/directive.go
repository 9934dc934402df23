package braw

import (
	"fmt"
	"strings"
)

// DirectiveKind enumerates the "!word arg" content directives.
type DirectiveKind int

const (
	DirectiveUnknown DirectiveKind = iota
	DirectiveImage
)

var directiveWords = map[string]DirectiveKind{
	"img": DirectiveImage,
}

func (k DirectiveKind) String() string {
	for word, kind := range directiveWords {
		if kind == k {
			return word
		}
	}
	return "unknown"
}

// Directive is a parsed "!word arg" content line.
type Directive struct {
	Kind DirectiveKind
	Word string
	Arg  string
}

// ParseDirective splits a trimmed line starting with '!' into its word and argument.
func ParseDirective(line string) (Directive, error) {
	body := strings.TrimPrefix(line, "!")
	word, arg, ok := strings.Cut(body, " ")
	arg = strings.TrimSpace(arg)
	if !ok || arg == "" {
		return Directive{}, ErrMissingDirectiveArgument
	}
	kind, known := directiveWords[word]
	if !known {
		return Directive{}, fmt.Errorf("%w %q", ErrUnknownDirective, word)
	}
	return Directive{Kind: kind, Word: word, Arg: arg}, nil
}
