package textproc

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"only separators", "  ¡¿!?, ...  ", nil},
		{"simple", "Hola Mundo", []string{"hola", "mundo"}},
		{"punctuation runs", "¿Cuáles son los horarios?!", []string{"cuáles", "son", "los", "horarios"}},
		{"accents and enie", "Años de Atención", []string{"años", "de", "atención"}},
		{"digits and underscore", "abre a las 9:00 AM tel_fijo", []string{"abre", "a", "las", "9", "00", "am", "tel_fijo"}},
		{"mixed case", "ViAjEs FELICES", []string{"viajes", "felices"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAllowedCharacters(t *testing.T) {
	tokens := Normalize("¡Hola! ¿reservas vuelos-2024 y tours_privados? correo@test.com")
	for _, tok := range tokens {
		for _, r := range tok {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				t.Fatalf("token %q contains disallowed rune %q", tok, r)
			}
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"¿Ofrecen descuentos para grupos?",
		"Tours guiados, alquiler de autos y MÁS...",
		"9:00 AM - 6:00 PM",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(strings.Join(once, " "))
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("normalize not idempotent for %q: %v vs %v", in, once, twice)
		}
	}
}
