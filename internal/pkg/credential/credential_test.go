package credential

import "testing"

func TestNewProducesValidCredentials(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !Valid(id) {
			t.Fatalf("generated credential %q is not valid", id)
		}
		if seen[id] {
			t.Fatalf("credential %q repeated", id)
		}
		seen[id] = true
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  a1b2c3d4e5f60718 "); got != "A1B2C3D4E5F60718" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"A1B2C3D4E5F60718":  true,
		"a1b2c3d4e5f60718":  false, // lowercase, must be normalized first
		"A1B2C3D4E5F6071":   false, // too short
		"A1B2C3D4E5F607181": false, // too long
		"G1B2C3D4E5F60718":  false, // not hex
		"":                  false,
	}
	for input, want := range cases {
		if got := Valid(input); got != want {
			t.Errorf("Valid(%q) = %v, want %v", input, got, want)
		}
	}
}
