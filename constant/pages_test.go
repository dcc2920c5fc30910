package constant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservedPath(t *testing.T) {
	assert.True(t, IsReservedPath("urls"))
	assert.True(t, IsReservedPath("password-protected"))
	assert.True(t, IsReservedPath("api/links"))
	assert.True(t, IsReservedPath(""))
	assert.False(t, IsReservedPath("launch"))
	assert.False(t, IsReservedPath("team/urls"))
}

func TestPageURLs(t *testing.T) {
	assert.Equal(t, "/deprecated?dpl=launch", DeprecatedPageURL("launch"))
	assert.Equal(t, "/password-protected?path=team%2Fvip", PasswordPageURL("team/vip"))
	assert.Equal(t, "redirect:team/vip", GetRedirectKey("team/vip"))
}
