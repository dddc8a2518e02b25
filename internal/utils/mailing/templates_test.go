package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetPassword(t *testing.T) {
	body, err := RenderResetPassword(ResetPasswordData{
		Username:     "<b>chef</b>",
		Link:         "http://localhost:8080/reset?token=abc",
		ValidMinutes: 15,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "http://localhost:8080/reset?token=abc")
	assert.Contains(t, body, "15 minutes")
	assert.Contains(t, body, "&lt;b&gt;chef&lt;/b&gt;")
}
