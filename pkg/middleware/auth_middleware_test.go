package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ASHISH26940/fablemaze-api/pkg/db"
	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		claims, ok := GetUserClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Username)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	token, err := tokens.GenerateToken(&db.User{ID: 3, Username: "alice1"})
	require.NoError(t, err)
	router := newProtectedRouter(tokens)

	cases := map[string]struct {
		header string
		status int
	}{
		"valid token":      {"Bearer " + token, http.StatusOK},
		"lowercase scheme": {"bearer " + token, http.StatusOK},
		"missing header":   {"", http.StatusUnauthorized},
		"wrong scheme":     {"Basic " + token, http.StatusUnauthorized},
		"no token":         {"Bearer", http.StatusUnauthorized},
		"garbage token":    {"Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "alice1", w.Body.String())
			}
		})
	}
}
