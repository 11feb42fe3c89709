package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidhub/pkg/errcode"
)

func init() { gin.SetMode(gin.TestMode) }

func run(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { Success(c, gin.H{"isLiked": true}, "Video liked successfully") })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 200, body.StatusCode)
	assert.True(t, body.Success)
	assert.Equal(t, "Video liked successfully", body.Message)
	assert.Equal(t, map[string]any{"isLiked": true}, body.Data)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errcode.InvalidArgument("name is required"), http.StatusBadRequest, "name is required"},
		{errcode.NotFound("playlist not found"), http.StatusNotFound, "playlist not found"},
		{errcode.Forbidden("not the owner"), http.StatusForbidden, "not the owner"},
		{errcode.Conflict("already in playlist"), http.StatusConflict, "already in playlist"},
		{errcode.Dependency("query", errors.New("db down")), http.StatusInternalServerError, "internal server error"},
		{errors.New("raw"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		w, body := run(t, func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.code, w.Code)
		assert.Equal(t, tc.code, body.StatusCode)
		assert.False(t, body.Success)
		assert.Equal(t, tc.msg, body.Message)
	}
}
