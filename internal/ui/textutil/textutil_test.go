package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"日本語テキスト", 5, "日本…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.w); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
		if got := Truncate(tt.in, tt.w); Width(got) > tt.w {
			t.Errorf("Truncate(%q, %d) is %d columns wide", tt.in, tt.w, Width(got))
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdefg", 4); got != "abc…" {
		t.Errorf("PadRight overflow = %q", got)
	}
}

func TestRow(t *testing.T) {
	got := Row([]int{6, 4, 10}, "API_KEY_LONG", "env", "production")
	want := "API_K…  env   production"
	if got != want {
		t.Errorf("Row = %q, want %q", got, want)
	}
	if got := Row([]int{3}, "a", "b"); got != "a" {
		t.Errorf("Row with extra cells = %q", got)
	}
}

func TestMask(t *testing.T) {
	if got := Mask(""); got != "••••••" {
		t.Errorf("Mask(\"\") = %q", got)
	}
	if got := Mask("abc"); got != "•••" {
		t.Errorf("Mask(abc) = %q", got)
	}
}
