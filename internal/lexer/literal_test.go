package lexer

import "testing"

func TestParseInt(t *testing.T) {
	cases := []struct {
		text   string
		value  uint64
		suffix IntSuffix
	}{
		{"0", 0, SuffixNone},
		{"1_000", 1000, SuffixNone},
		{"0xFF", 255, SuffixNone},
		{"0b101", 5, SuffixNone},
		{"7u", 7, SuffixU},
		{"7L", 7, SuffixL},
		{"7uL", 7, SuffixUL},
		{"7LU", 7, SuffixUL},
	}
	for _, tc := range cases {
		v, s, err := ParseInt(tc.text)
		if err != nil || v != tc.value || s != tc.suffix {
			t.Errorf("ParseInt(%q) = %d, %d, %v", tc.text, v, s, err)
		}
	}
	if _, _, err := ParseInt("99999999999999999999"); err == nil {
		t.Errorf("overflow must fail")
	}
}

func TestParseReal(t *testing.T) {
	v, s, err := ParseReal("1.5f")
	if err != nil || v != 1.5 || s != RealF {
		t.Fatalf("ParseReal(1.5f) = %v %v %v", v, s, err)
	}
	v, s, err = ParseReal("2_0.25")
	if err != nil || v != 20.25 || s != RealNone {
		t.Fatalf("ParseReal(2_0.25) = %v %v %v", v, s, err)
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		`"a\tb"`:       "a\tb",
		`"\u0041\x42"`: "AB",
		`@"c:\x"""`:    `c:\x"`,
		`'\''`:         "'",
		`"é"`:          "é",
	}
	for in, want := range cases {
		got, err := Unquote(in)
		if err != nil || got != want {
			t.Errorf("Unquote(%s) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := Unquote(`"\q"`); err == nil {
		t.Errorf("bad escape must fail")
	}
}
