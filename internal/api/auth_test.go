package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestHasNoRoleField(t *testing.T) {
	// Self-service registration always creates a staff account, so a caller
	// trying to pick a role must be rejected at decode time.
	body := strings.NewReader(`{"username":"a","email":"a@b.example","password":"pw","role":"admin"}`)
	r := httptest.NewRequest(http.MethodPost, "/auth/register", body)

	var req registerRequest
	assert.Error(t, decodeJSON(r, &req))
}

func TestRegisterRequestDecode(t *testing.T) {
	body := strings.NewReader(`{"username":"a","email":"a@b.example","password":"pw"}`)
	r := httptest.NewRequest(http.MethodPost, "/auth/register", body)

	var req registerRequest
	require.NoError(t, decodeJSON(r, &req))
	assert.Equal(t, "a", req.Username)
	assert.Equal(t, "a@b.example", req.Email)
	assert.Equal(t, "pw", req.Password)
}
