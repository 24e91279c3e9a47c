package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	ISBN      string `json:"isbn" validate:"required,isbn"`
	Email     string `json:"email" validate:"omitempty,email"`
	Title     string `json:"title" validate:"required,max=10"`
	Total     int    `json:"total_copies" validate:"gte=0"`
	Available int    `json:"available_copies" validate:"ltefield=Total"`
	Internal  string `json:"-" validate:"omitempty,min=3"`
}

func detailsByField(details []ErrorDetail) map[string]string {
	m := make(map[string]string, len(details))
	for _, d := range details {
		m[d.Field] = d.Message
	}
	return m
}

func TestValidateStructValid(t *testing.T) {
	details := ValidateStruct(sampleInput{
		ISBN:      "978-0-441-01359-3",
		Email:     "reader@example.com",
		Title:     "Dune",
		Total:     3,
		Available: 2,
	})
	assert.Empty(t, details)
}

func TestValidateStructMessages(t *testing.T) {
	details := detailsByField(ValidateStruct(sampleInput{
		ISBN:      "12345",
		Email:     "not-an-email",
		Title:     "A Title Far Too Long",
		Total:     -1,
		Available: 5,
	}))

	assert.Equal(t, "isbn must be a valid ISBN (10 or 13 digits)", details["isbn"])
	assert.Equal(t, "email must be a valid email address", details["email"])
	assert.Equal(t, "title must be at most 10 characters", details["title"])
	assert.Equal(t, "total_copies must be greater than or equal to 0", details["total_copies"])
	assert.Contains(t, details["available_copies"], "must not exceed")
}

func TestValidateStructRequired(t *testing.T) {
	details := detailsByField(ValidateStruct(sampleInput{}))

	assert.Equal(t, "isbn is required", details["isbn"])
	assert.Equal(t, "title is required", details["title"])
	assert.NotContains(t, details, "email")
}

func TestValidateISBN(t *testing.T) {
	cases := []struct {
		isbn  string
		valid bool
	}{
		{"9780441013593", true},
		{"978 0 441 01359 3", true},
		{"044101359X", true},
		{"0441013591", true},
		{"04410135XX", false},
		{"97804410135", false},
		{"978044101359a", false},
	}
	for _, tc := range cases {
		t.Run(tc.isbn, func(t *testing.T) {
			details := detailsByField(ValidateStruct(sampleInput{ISBN: tc.isbn, Title: "x"}))
			_, failed := details["isbn"]
			assert.Equal(t, tc.valid, !failed)
		})
	}
}
