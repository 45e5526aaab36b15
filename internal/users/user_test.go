package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleGates(t *testing.T) {
	admin := User{ID: "u1", Role: RoleAdmin}
	customer := User{ID: "u2", Role: RoleCustomer}

	assert.True(t, admin.CanManageCatalog())
	assert.False(t, admin.CanShop())
	assert.True(t, customer.CanShop())
	assert.False(t, customer.CanManageCatalog())
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("reader@example.com"))
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("@example.com"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateEmail("reader@"), ErrInvalidEmail)
}
