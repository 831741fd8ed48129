package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMethodLimiter_KeyUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewMethodLimiter()

	var got string
	r := gin.New()
	r.DELETE("/api/notes/:id", func(c *gin.Context) { got = l.Key(c) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/notes/42", nil))
	assert.Equal(t, "DELETE /api/notes/:id", got)
}

func TestMethodLimiter_Buckets(t *testing.T) {
	l := NewMethodLimiter().AddBuckets(BucketRule{
		Key:          "POST /api/images",
		FillInterval: time.Hour,
		Capacity:     2,
		Quantum:      2,
	})

	bucket, ok := l.GetBucket("POST /api/images")
	assert.True(t, ok)
	assert.Equal(t, int64(2), bucket.TakeAvailable(5))
	assert.Equal(t, int64(0), bucket.TakeAvailable(1))

	_, ok = l.GetBucket("GET /api/notes")
	assert.False(t, ok)
}
