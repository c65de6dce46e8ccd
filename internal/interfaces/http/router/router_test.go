package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("catalog", "/skus")
	r.Register(group)

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("catalog", "/skus")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/skus/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("pricing", "/prices")
		assert.Equal(t, "pricing", g.Name())
		assert.Equal(t, "/prices", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pricing", "/prices")
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).
			POST("", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			PUT("/:id", func(c *gin.Context) { c.Status(http.StatusOK) }).
			PATCH("/:id/stock", func(c *gin.Context) { c.Status(http.StatusOK) }).
			DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
			want   int
		}{
			{"GET", "/api/v1/prices", http.StatusOK},
			{"POST", "/api/v1/prices", http.StatusCreated},
			{"PUT", "/api/v1/prices/123", http.StatusOK},
			{"PATCH", "/api/v1/prices/123/stock", http.StatusOK},
			{"DELETE", "/api/v1/prices/123", http.StatusNoContent},
		}
		for _, tt := range tests {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pricing", "/prices")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/prices", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pricing", "/pricing")

		reference := g.Group("reference", "/reference-prices")
		reference.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "reference list")
		})

		alerts := g.Group("alerts", "/alerts")
		alerts.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "alert list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req1 := httptest.NewRequest("GET", "/api/v1/pricing/reference-prices", nil)
		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "reference list", w1.Body.String())

		req2 := httptest.NewRequest("GET", "/api/v1/pricing/alerts", nil)
		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "alert list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	skus := NewDomainGroup("catalog", "/skus")
	skus.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "skus")
	})

	districts := NewDomainGroup("districts", "/districts")
	districts.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "districts")
	})

	r.Register(skus).Register(districts)
	r.Setup()

	req1 := httptest.NewRequest("GET", "/api/v1/skus", nil)
	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "skus", w1.Body.String())

	req2 := httptest.NewRequest("GET", "/api/v1/districts", nil)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "districts", w2.Body.String())
}
