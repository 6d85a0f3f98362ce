package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IntSuffix records which C# integer suffix a literal carried.
type IntSuffix uint8

const (
	SuffixNone IntSuffix = iota
	SuffixU
	SuffixL
	SuffixUL
)

// RealSuffix records the suffix of a real literal; RealNone means double.
type RealSuffix uint8

const (
	RealNone RealSuffix = iota
	RealF
	RealD
	RealM
)

var errEmptyLiteral = errors.New("empty literal")

// ParseInt decodes the text of an IntLit token.
func ParseInt(text string) (uint64, IntSuffix, error) {
	body, suffix := splitIntSuffix(text)
	body = strings.ReplaceAll(body, "_", "")
	if body == "" {
		return 0, suffix, errEmptyLiteral
	}
	base := 10
	switch {
	case len(body) > 2 && (body[:2] == "0x" || body[:2] == "0X"):
		base, body = 16, body[2:]
	case len(body) > 2 && (body[:2] == "0b" || body[:2] == "0B"):
		base, body = 2, body[2:]
	}
	v, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return 0, suffix, fmt.Errorf("integral constant %q: %w", text, err)
	}
	return v, suffix, nil
}

func splitIntSuffix(text string) (string, IntSuffix) {
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "ul"), strings.HasSuffix(lower, "lu"):
		return text[:len(text)-2], SuffixUL
	case strings.HasSuffix(lower, "u"):
		return text[:len(text)-1], SuffixU
	case strings.HasSuffix(lower, "l"):
		return text[:len(text)-1], SuffixL
	}
	return text, SuffixNone
}

// ParseReal decodes the text of a RealLit token (or an IntLit carrying f/d/m).
func ParseReal(text string) (float64, RealSuffix, error) {
	suffix := RealNone
	if n := len(text); n > 0 {
		switch text[n-1] {
		case 'f', 'F':
			suffix = RealF
		case 'd', 'D':
			suffix = RealD
		case 'm', 'M':
			suffix = RealM
		}
		if suffix != RealNone {
			text = text[:n-1]
		}
	}
	body := strings.ReplaceAll(text, "_", "")
	if body == "" {
		return 0, suffix, errEmptyLiteral
	}
	bits := 64
	if suffix == RealF {
		bits = 32
	}
	v, err := strconv.ParseFloat(body, bits)
	if err != nil {
		return 0, suffix, fmt.Errorf("real constant %q: %w", text, err)
	}
	return v, suffix, nil
}

// Unquote decodes a string or char literal token text, verbatim strings included.
func Unquote(text string) (string, error) {
	if strings.HasPrefix(text, `@"`) {
		if len(text) < 3 || text[len(text)-1] != '"' {
			return "", fmt.Errorf("malformed verbatim string %q", text)
		}
		return strings.ReplaceAll(text[2:len(text)-1], `""`, `"`), nil
	}
	if len(text) < 2 || (text[0] != '"' && text[0] != '\'') || text[len(text)-1] != text[0] {
		return "", fmt.Errorf("malformed literal %q", text)
	}
	body := text[1 : len(text)-1]
	var sb strings.Builder
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			r, sz := utf8.DecodeRuneInString(body[i:])
			sb.WriteRune(r)
			i += sz
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("dangling escape in %q", text)
		}
		esc := body[i+1]
		i += 2
		switch esc {
		case '\'', '"', '\\':
			sb.WriteByte(esc)
		case '0':
			sb.WriteByte(0)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'x', 'u', 'U':
			maxDigits := 4
			if esc == 'U' {
				maxDigits = 8
			}
			j := i
			for j < len(body) && j-i < maxDigits && isHex(body[j]) {
				j++
			}
			if j == i || (esc != 'x' && j-i != maxDigits) {
				return "", fmt.Errorf("bad \\%c escape in %q", esc, text)
			}
			v, err := strconv.ParseUint(body[i:j], 16, 32)
			if err != nil {
				return "", err
			}
			sb.WriteRune(rune(v))
			i = j
		default:
			return "", fmt.Errorf("unrecognized escape \\%c in %q", esc, text)
		}
	}
	return sb.String(), nil
}
