package score

import (
	"fmt"
	"strconv"
	"strings"
)

const pattern = "[<init>init][<hard>/...]hard/[<soft>/...]soft"

// Parse is the inverse of Bendable.String. The level counts are taken from
// the string; use Definition.Parse to also check them.
func Parse(s string) (Bendable, error) {
	rest := s

	var initScore int32
	if i := strings.Index(rest, initLabel); i >= 0 {
		v, err := parseLevel(s, rest[:i], "init score")
		if err != nil {
			return Bendable{}, err
		}
		initScore = v
		// older writers put a separator after the init prefix
		rest = strings.TrimPrefix(rest[i+len(initLabel):], levelSeparator)
	}

	hard, rest, err := parseGroup(s, rest, hardLabel)
	if err != nil {
		return Bendable{}, err
	}

	if !strings.HasPrefix(rest, levelSeparator) {
		return Bendable{}, &ParseError{Input: s, Token: rest, Message: "the separator between hard and soft levels is missing"}
	}
	rest = rest[len(levelSeparator):]

	soft, rest, err := parseGroup(s, rest, softLabel)
	if err != nil {
		return Bendable{}, err
	}

	if rest != "" {
		return Bendable{}, &ParseError{Input: s, Token: rest, Message: "unexpected trailing content after the soft levels"}
	}

	return OfUninitialized(initScore, hard, soft), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Bendable {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseGroup(input, rest, label string) ([]int32, string, error) {
	suffix := "]" + label
	end := strings.Index(rest, suffix)
	if end < 0 {
		return nil, "", &ParseError{Input: input, Token: rest, Message: fmt.Sprintf("the suffix (%s) is not found", label)}
	}
	if !strings.HasPrefix(rest, "[") {
		return nil, "", &ParseError{Input: input, Token: rest[:end+len(suffix)], Message: "the level delimiters [ and ] are missing"}
	}

	levels := []int32{}
	if inner := rest[1:end]; inner != "" {
		for _, tok := range strings.Split(inner, levelSeparator) {
			v, err := parseLevel(input, tok, label+" level")
			if err != nil {
				return nil, "", err
			}
			levels = append(levels, v)
		}
	}
	return levels, rest[end+len(suffix):], nil
}

func parseLevel(input, tok, what string) (int32, error) {
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, &ParseError{Input: input, Token: tok, Message: fmt.Sprintf("the %s isn't a valid int", what)}
	}
	return int32(v), nil
}
