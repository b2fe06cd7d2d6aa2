package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/tienda-social-api/pkg/textutil"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fríjol", "frijol"},
		{"  Azúcar Morena ", "azucar morena"},
		{"ÑOQUIS", "noquis"},
		{"café", "cafe"},
		{"ya normalizado", "ya normalizado"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, textutil.Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

// La propiedad que sostiene la búsqueda: normalizar dos veces da lo mismo
// que una, así indexado y consulta siempre comparan en la misma forma.
func TestNormalize_Idempotente(t *testing.T) {
	for _, s := range []string{"Fríjol Rojo", "PANELA", "jabón de baño"} {
		once := textutil.Normalize(s)
		assert.Equal(t, once, textutil.Normalize(once))
	}
}
