package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a chord specification into a Chord.
//
// Supported formats:
//   - Single character: "b", "B", "1", "@"
//   - Key names: "Enter", "Escape", "Tab", "Space"
//   - With modifiers: "Ctrl+B", "ctrl+shift+p", "Cmd+S"
//   - Vim-style: "<C-b>", "<C-S-p>", "<CR>", "<Esc>"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVim(spec[1 : len(spec)-1])
	}
	if strings.Contains(spec, "+") && utf8.RuneCountInString(spec) > 1 {
		return parsePlus(spec)
	}
	return parseBare(spec, ModNone)
}

// Normalize parses a spec and returns its canonical string form.
func Normalize(spec string) (string, error) {
	c, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// parseVim parses the inside of "<...>" notation: "C-b", "C-S-p", "CR".
func parseVim(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(strings.TrimSpace(p))
		mod, ok := modifierNameMap[p]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseBare(parts[len(parts)-1], mods)
}

// parsePlus parses "Ctrl+Shift+B" style notation. The last part is the
// key; everything before it must be a modifier.
func parsePlus(spec string) (Chord, error) {
	parts := strings.Split(spec, "+")

	// A trailing "+" means the key itself is "+", as in "Ctrl++".
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(modParts) > 0 {
		keyPart = "+"
		modParts = modParts[:len(modParts)-1]
	}

	var mods Modifier
	for _, p := range modParts {
		p = strings.ToLower(strings.TrimSpace(p))
		mod, ok := modifierNameMap[p]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseBare(keyPart, mods)
}

// parseBare parses a key name or single character with the given modifiers.
func parseBare(part string, mods Modifier) (Chord, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Chord{}, ErrInvalidSpec
	}

	if k, ok := keyNameMap[strings.ToLower(part)]; ok && utf8.RuneCountInString(part) > 1 {
		return Chord{Key: k, Modifiers: mods}, nil
	}

	if utf8.RuneCountInString(part) == 1 {
		r, _ := utf8.DecodeRuneInString(part)
		if r == ' ' {
			return Chord{Key: KeySpace, Modifiers: mods}, nil
		}
		// Uppercase letters fold to lowercase; the shift that produced
		// them is part of the character, not a separate modifier.
		return Chord{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: mods}, nil
	}

	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, part)
}
