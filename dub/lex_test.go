package dub

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "speed 20wpm",
			expect: []token{
				token{typ: typeIdentifier, text: "speed"},
				token{typ: typeQuantity, text: "20wpm"},
				token{typ: typeEOF},
			},
		},
		{
			input: "pot 1   2048",
			expect: []token{
				token{typ: typeIdentifier, text: "pot"},
				token{typ: typeInt, text: "1"},
				token{typ: typeInt, text: "2048"},
				token{typ: typeEOF},
			},
		},
		{
			input: "1.0",
			expect: []token{
				token{typ: typeFloat, text: "1.0"},
				token{typ: typeEOF},
			},
		},
		{
			input: "-1.",
			expect: []token{
				token{typ: typeFloat, text: "-1."},
				token{typ: typeEOF},
			},
		},
		{
			input: "-.1",
			expect: []token{
				token{typ: typeFloat, text: "-.1"},
				token{typ: typeEOF},
			},
		},
		{
			input: "hang 6.5ms",
			expect: []token{
				token{typ: typeIdentifier, text: "hang"},
				token{typ: typeQuantity, text: "6.5ms"},
				token{typ: typeEOF},
			},
		},
		{
			input: `rx "some file.wav" 1`,
			expect: []token{
				token{typ: typeIdentifier, text: "rx"},
				token{typ: typeString, text: `"some file.wav"`},
				token{typ: typeInt, text: "1"},
				token{typ: typeEOF},
			},
		},
	}
	for _, test := range tests {
		t.Log(test.input)
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("unexpected lex error: %v", err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Fatalf("token mismatch: \nwant: %+v, \ngot:  %+v", test.expect, tokens)
		}
		for i, got := range tokens {
			want := test.expect[i]
			if want.typ != got.typ {
				t.Errorf("wrong type: want %v, got %v", want, got)
			}
			if want.text != got.text {
				t.Errorf("wrong text: want %v, got %v", want, got)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	for _, input := range []string{
		"a -",
		"a .-",
		`rx "open`,
		"freq 7h1",
		"a;",
	} {
		_, err := lex(input)
		if err == nil {
			t.Errorf("expected error for input: %q", input)
		}
	}
}
