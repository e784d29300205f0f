package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"b", Chord{Key: KeyRune, Rune: 'b'}},
		{"B", Chord{Key: KeyRune, Rune: 'b'}},
		{"Ctrl+B", Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"ctrl+shift+p", Chord{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl | ModShift}},
		{"Cmd+S", Chord{Key: KeyRune, Rune: 's', Modifiers: ModMeta}},
		{"<C-b>", Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}},
		{"<C-S-p>", Chord{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl | ModShift}},
		{"<CR>", Chord{Key: KeyEnter}},
		{"<Esc>", Chord{Key: KeyEscape}},
		{"Enter", Chord{Key: KeyEnter}},
		{"Ctrl+Enter", Chord{Key: KeyEnter, Modifiers: ModCtrl}},
		{"Space", Chord{Key: KeySpace}},
		{"Tab", Chord{Key: KeyTab}},
		{"Ctrl++", Chord{Key: KeyRune, Rune: '+', Modifiers: ModCtrl}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.spec, err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"   ", ErrEmptySpec},
		{"Bogus+B", ErrInvalidSpec},
		{"NotAKey", ErrInvalidSpec},
		{"<X-b>", ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if _, err := Parse(tt.spec); !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentSpecs(t *testing.T) {
	// Different notations for the same combination must normalize to the
	// same canonical string, since that string is the rebind key.
	groups := [][]string{
		{"Ctrl+B", "ctrl+b", "<C-b>", "Ctrl+b"},
		{"Ctrl+Shift+P", "shift+ctrl+p", "<C-S-p>"},
		{"Enter", "<CR>", "Return", "<Enter>"},
	}

	for _, group := range groups {
		first, err := Normalize(group[0])
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", group[0], err)
		}
		for _, spec := range group[1:] {
			got, err := Normalize(spec)
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", spec, err)
			}
			if got != first {
				t.Errorf("Normalize(%q) = %q, want %q (same as %q)", spec, got, first, group[0])
			}
		}
	}
}

func TestChord_String(t *testing.T) {
	tests := []struct {
		chord Chord
		want  string
	}{
		{Chord{Key: KeyRune, Rune: 'b', Modifiers: ModCtrl}, "ctrl+b"},
		{Chord{Key: KeyEnter, Modifiers: ModCtrl | ModShift}, "ctrl+shift+enter"},
		{Chord{Key: KeyRune, Rune: 'x'}, "x"},
	}

	for _, tt := range tests {
		if got := tt.chord.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
