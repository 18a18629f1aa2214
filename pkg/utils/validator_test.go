package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type validatedSample struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Slug     string `json:"slug" validate:"required,max=50,slug"`
	Year     int    `json:"year" validate:"required,notfuture"`
}

func TestValidateStruct(t *testing.T) {
	thisYear := time.Now().Year()

	tests := []struct {
		name      string
		input     validatedSample
		wantField string
	}{
		{"valid", validatedSample{"bob.smith+1@x", "sci-fi_2", thisYear}, ""},
		{"reserved username", validatedSample{"me", "drama", 1999}, "username"},
		{"bad username chars", validatedSample{"bob smith", "drama", 1999}, "username"},
		{"long username", validatedSample{strings.Repeat("a", 151), "drama", 1999}, "username"},
		{"bad slug", validatedSample{"bob", "sci fi", 1999}, "slug"},
		{"future year", validatedSample{"bob", "drama", thisYear + 1}, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.input)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"slug": "bad"})
	assert.Equal(t, "slug: bad", msg)
}
