package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	testCases := []struct {
		name       string
		checks     func(v *Validator)
		wantValid  bool
		wantErrors map[string]string
	}{
		{
			name:      "no checks",
			checks:    func(v *Validator) {},
			wantValid: true,
		},
		{
			name: "passing checks",
			checks: func(v *Validator) {
				v.Check(true, "title", "must be provided")
				v.Check(v.CheckStringLength("hello", 1, 200), "title", "must be between 1 and 200 characters long")
			},
			wantValid: true,
		},
		{
			name: "failing check",
			checks: func(v *Validator) {
				v.Check(false, "content", "must be provided")
			},
			wantValid:  false,
			wantErrors: map[string]string{"content": "must be provided"},
		},
		{
			name: "first message per field wins",
			checks: func(v *Validator) {
				v.Check(false, "title", "must be provided")
				v.Check(false, "title", "must be between 1 and 200 characters long")
			},
			wantValid:  false,
			wantErrors: map[string]string{"title": "must be provided"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator()
			tc.checks(v)

			assert.Equal(t, tc.wantValid, v.Valid())
			if !tc.wantValid {
				assert.Equal(t, ValidationError{Errors: tc.wantErrors}, v.ValidationError())
			}
		})
	}
}

func TestCheckStringLength(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.CheckStringLength("abc", 3, 5))
	assert.True(t, v.CheckStringLength("abcde", 3, 5))
	assert.False(t, v.CheckStringLength("ab", 3, 5))
	assert.False(t, v.CheckStringLength("abcdef", 3, 5))
}
