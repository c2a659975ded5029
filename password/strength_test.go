package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-cart/apperr"
	"catalog-cart/config"
)

func TestDefaultPolicyCheck(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		name string
		pw   string
		want []Violation
	}{
		{name: "strong", pw: "Ana@1234", want: nil},
		{name: "empty", pw: "", want: []Violation{TooShort, MissingDigit, MissingSpecial, MissingUpper}},
		{name: "short", pw: "A@1b", want: []Violation{TooShort}},
		{name: "no digit", pw: "Abcdefg!", want: []Violation{MissingDigit}},
		{name: "no special", pw: "Abcdefg1", want: []Violation{MissingSpecial}},
		{name: "no upper", pw: "abcdef1!", want: []Violation{MissingUpper}},
		{name: "unlisted symbol", pw: "Abcdef1~", want: []Violation{MissingSpecial}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Check(tc.pw))
			assert.Equal(t, tc.want == nil, p.Valid(tc.pw))
		})
	}
}

func TestLengthCountsRunes(t *testing.T) {
	p := Policy{MinLength: 4}
	assert.True(t, p.Valid("ção!"))
	assert.False(t, p.Valid("çã"))
}

func TestRequireLower(t *testing.T) {
	p := DefaultPolicy()
	p.RequireLower = true
	assert.Equal(t, []Violation{MissingLower}, p.Check("ABCDEF1!"))
	assert.Empty(t, p.Check("ABCDEf1!"))
}

func TestValidateListsViolations(t *testing.T) {
	p := DefaultPolicy()

	require.NoError(t, p.Validate("Fran@9876"))

	err := p.Validate("abc")
	require.Error(t, err)
	e := apperr.As(err)
	require.NotNil(t, e)
	assert.Equal(t, apperr.ReasonWeakPassword, e.Reason())
	assert.Equal(t, apperr.CodeValidation, e.Code())
	assert.Equal(t, []string{
		"must be at least 8 characters long",
		"must contain at least one number",
		"must contain at least one special character",
		"must contain at least one uppercase letter",
	}, e.Details())
}

func TestPolicyFromConfig(t *testing.T) {
	p := PolicyFromConfig(config.Default().Password)
	assert.Equal(t, DefaultPolicy(), p)

	relaxed := PolicyFromConfig(config.PasswordConfig{MinLength: 6})
	assert.True(t, relaxed.Valid("abcdef"))
	assert.Equal(t, []string{"at least 6 characters"}, relaxed.Rules())
}

func TestRules(t *testing.T) {
	rules := DefaultPolicy().Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, "at least 8 characters", rules[0])
	assert.Contains(t, rules[2], "special character")
}
