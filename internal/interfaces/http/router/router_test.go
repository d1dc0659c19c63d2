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

	group := NewDomainGroup("test", "/test")
	r.Register(group)

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	// Test the route was registered
	req := httptest.NewRequest("GET", "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("logs", "/logs")
		assert.Equal(t, "logs", g.Name())
		assert.Equal(t, "/logs", g.Prefix())
	})

	t.Run("registers GET route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "items")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "items", w.Body.String())
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")

		// Add middleware that sets a header
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("inventory", "/inventory")

		logs := g.Group("logs", "/logs")
		logs.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "logs list")
		})

		items := g.Group("items", "/items")
		items.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "items list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		// Test logs route
		req1 := httptest.NewRequest("GET", "/api/v1/inventory/logs", nil)
		w1 := httptest.NewRecorder()
		engine.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "logs list", w1.Body.String())

		// Test items route
		req2 := httptest.NewRequest("GET", "/api/v1/inventory/items", nil)
		w2 := httptest.NewRecorder()
		engine.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "items list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	logs := NewDomainGroup("logs", "/logs")
	logs.GET("/export", func(c *gin.Context) {
		c.String(http.StatusOK, "logs export")
	})

	items := NewDomainGroup("items", "/items")
	items.GET("/export", func(c *gin.Context) {
		c.String(http.StatusOK, "items export")
	})

	r.Register(logs).Register(items)
	r.Setup()

	// Test logs route
	req1 := httptest.NewRequest("GET", "/api/v1/logs/export", nil)
	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "logs export", w1.Body.String())

	// Test items route
	req2 := httptest.NewRequest("GET", "/api/v1/items/export", nil)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "items export", w2.Body.String())
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("logs", "/logs")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		GET("/export", func(c *gin.Context) { c.String(http.StatusOK, "export") }).
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "one:"+c.Param("id")) })

	r.Register(g).Setup()

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/logs", "list"},
		{"/api/v1/logs/export", "export"},
		{"/api/v1/logs/42", "one:42"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "Route %s should work", tt.path)
		assert.Equal(t, tt.want, w.Body.String())
	}
}

func TestDomainGroup_OnlyServesGET(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(NewDomainGroup("items", "/items").GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/items", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
