package requestid

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const HeaderKey = "X-Request-ID"

// New: リクエストごとにULIDを採番してヘッダとcontextに載せる。
// クライアントが持ち込んだIDがあればそれを優先する。
func New() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderKey)
		if id == "" {
			id = ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
		}
		c.Set(HeaderKey, id)
		c.Writer.Header().Set(HeaderKey, id)
		c.Next()
	}
}

// FromContext: ハンドラ側でログ等に使う用
func FromContext(c *gin.Context) string {
	return c.GetString(HeaderKey)
}
