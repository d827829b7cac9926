// ABOUTME: Tests for escaped byte argument parsing and rendering
// ABOUTME: Covers Go escapes, \e, literal UTF-8, invalid escapes and the inverse rendering

package main

import "testing"

func TestUnescape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`\x1b[A`, "\x1b[A", false},
		{`\e[97;5u`, "\x1b[97;5u", false},
		{`\033OP`, "\x1bOP", false},
		{`\r`, "\r", false},
		{`\x7f`, "\x7f", false},
		{`é`, "é", false},
		{`é`, "é", false},
		{`a"b'c`, `a"b'c`, false},
		{`\\e`, `\e`, false},
		{`\q`, "", true},
		{`\x1`, "", true},
	}

	for _, tt := range tests {
		got, err := unescape(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("unescape(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && string(got) != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"\x1b[A", `\x1b[A`},
		{"\x01", `\x01`},
		{"\x7f", `\x7f`},
		{"a b", "a b"},
		{"é", "é"},
		{"\xc3", `\xc3`},
		{`\`, `\\`},
	}

	for _, tt := range tests {
		if got := escapeBytes([]byte(tt.in)); got != tt.want {
			t.Errorf("escapeBytes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"\x1b[27;5;9~", "\x1b\x7f", "x\\y", "\x1b[200~日本\x1b[201~"} {
		got, err := unescape(escapeBytes([]byte(in)))
		if err != nil {
			t.Fatalf("unescape(escapeBytes(%q)): %v", in, err)
		}
		if string(got) != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}
