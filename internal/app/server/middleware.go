package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxExternalID is the gin context key holding the verified external
// subject id for the current request.
const ctxExternalID = "externalSubjectID"

func requireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		subject, err := tokens.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
			return
		}

		c.Set(ctxExternalID, subject)
		c.Next()
	}
}
