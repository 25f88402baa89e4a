package utils

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
	CacheForever = 365 * 24 * 3600
)

// CacheRouter sets the cache-control header of the routes it is attached to.
// Later handlers in the chain overwrite what earlier ones set.
type CacheRouter struct {
	CacheTime int  // seconds, defaults to CacheNoCache
	Public    bool // shared caches may keep the response too
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	value := cr.headerValue()
	return func(c *gin.Context) {
		if value != "" {
			c.Header("cache-control", value)
		}
		c.Next()
	}
}

func (cr *CacheRouter) headerValue() string {
	switch {
	case cr.CacheTime == CacheCustom:
		return ""
	case cr.CacheTime == CacheNoCache:
		return "no-cache"
	case cr.CacheTime >= CacheForever && cr.Public:
		return "public, max-age=" + strconv.Itoa(cr.CacheTime) + ", immutable"
	case cr.Public:
		return "public, max-age=" + strconv.Itoa(cr.CacheTime)
	}
	return "private, max-age=" + strconv.Itoa(cr.CacheTime)
}

type errorLogWriter struct {
	gin.ResponseWriter
	gc *gin.Context
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	status := w.gc.Writer.Status()
	if status >= 400 {
		log.Printf("[DEBUG ERROR]: %s %s, Status %d, Body: %s", w.gc.Request.Method, w.gc.Request.URL.Path, status, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs the body of failed responses. It doesn't work with GZIP
func ErrorLogMiddleware(c *gin.Context) {
	if c.IsWebsocket() {
		c.Next()
		return
	}
	c.Writer = &errorLogWriter{gc: c, ResponseWriter: c.Writer}
	c.Next()
}
