package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Los metacaracteres de LIKE en el substring del usuario se comparan literal:
// "%" solo no debe convertirse en un comodín que matchee todo.
func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ana", "ana"},
		{"%", `\%`},
		{"_", `\_`},
		{`\`, `\\`},
		{"50%_desc", `50\%\_desc`},
		{`a\%b`, `a\\\%b`},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, escapeLike(c.in), "input %q", c.in)
	}
}
