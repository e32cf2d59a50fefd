package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindStatus(t *testing.T) {
	for kind, status := range map[ErrorKind]int{
		KindValidation:      400,
		KindDuplicateEmail:  400,
		KindUnauthenticated: 401,
		KindForbidden:       403,
		KindAdminRequired:   403,
		KindUnauthorized:    403,
		KindNotFound:        404,
		KindRateLimited:     429,
		KindInternal:        500,
	} {
		assert.Equal(t, status, kind.Status(), kind)
	}
}

func failWith(t *testing.T, err error) (int, JSONResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Fail(ctx, err)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestFail(t *testing.T) {
	status, body := failWith(t, NewAppError(KindDuplicateEmail, 40010, "email already registered"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, 40010, body.Code)
	assert.Equal(t, KindDuplicateEmail, body.Error)

	status, body = failWith(t, errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, KindInternal, body.Error)
	assert.NotContains(t, body.Message, "exploded")
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, UniqueStrings([]string{"b", "", "a", "b"}))
	assert.Empty(t, UniqueStrings(nil))
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"literal tags":        {" <b>Q1</b> & Q2<script>alert(1)</script> ", "Q1 & Q2"},
		"entity encoded":      {"&lt;script&gt;alert(1)&lt;/script&gt;Q1", "Q1"},
		"double encoded":      {"&amp;lt;img src=x onerror=alert(1)&amp;gt;Sales", "Sales"},
		"encoded attribute":   {"Q1&lt;b onmouseover=alert(1)&gt;", "Q1"},
		"plain comparison":    {"a < b", "a < b"},
		"ampersand preserved": {"R&D.xlsx", "R&D.xlsx"},
	}
	for name, tc := range cases {
		got := SanitizeText(tc.in)
		assert.Equal(t, tc.want, got, name)
		assert.NotContains(t, strings.ToLower(got), "<script", name)
		assert.NotContains(t, strings.ToLower(got), "onerror", name)
	}
}
