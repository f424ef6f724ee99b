package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Title string  `json:"title" validate:"required,min=3"`
	Email string  `json:"email" validate:"required,email"`
	Price float64 `form:"price" validate:"gte=0"`
	Role  string  `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(sampleRequest{Title: "Go 101", Email: "a@b.com", Price: 10})
	assert.NoError(t, err)
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	err := ValidateStruct(sampleRequest{Title: "Go", Email: "nope", Price: -1, Role: "root"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "title must be at least 3")
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "price must be greater than or equal to 0")
	assert.Contains(t, err.Error(), "role must be one of [user admin]")
}

func TestValidateStruct_Required(t *testing.T) {
	err := ValidateStruct(sampleRequest{})
	assert.ErrorContains(t, err, "title is required")
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.com"))
	assert.False(t, IsValidEmail("invalid"))
	assert.False(t, IsValidEmail(""))
}
