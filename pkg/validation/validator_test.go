package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"firstName" validate:"required,personname"`
	LastName  string `json:"last_name" validate:"max=3"`
	Ignored   string `form:"-" validate:"max=1"`
}

func TestStruct(t *testing.T) {
	cases := []struct {
		title string
		in    signupForm
		want  map[string]string
	}{
		{
			title: "valid",
			in:    signupForm{Email: "ana@example.com", FirstName: "Ana", LastName: "Lo"},
			want:  nil,
		},
		{
			title: "missing",
			in:    signupForm{},
			want: map[string]string{
				"email":     "is required",
				"firstName": "is required",
			},
		},
		{
			title: "bad email and long name",
			in:    signupForm{Email: "nope", FirstName: "Ana", LastName: "Lopez"},
			want: map[string]string{
				"email":     "must be a valid email",
				"last_name": "must be at most 3 characters long",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Struct(tc.in))
		})
	}
}

func TestToDetails(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	var syn json.SyntaxError
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(&syn))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
