package httpcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRouterGroup tests the Group method of Router
func TestRouterGroup(t *testing.T) {
	router := NewRouter()
	group := router.Group("/api")

	assert.NotNil(t, group, "Router.Group() returned nil")
	assert.Equal(t, "/api", group.prefix, "group.prefix doesn't match expected value")
	assert.Same(t, router, group.router, "group.router is not the same as the router")
	assert.Empty(t, group.middlewares, "group.middlewares should be empty")
}

// TestGroupUse tests the Use method of Group
func TestGroupUse(t *testing.T) {
	router := NewRouter()
	group := router.Group("/api")

	middleware1 := func(c *Ctx) { c.Next() }
	result := group.Use(middleware1)
	assert.Same(t, group, result, "Group.Use() did not return the group")
	assert.Len(t, group.middlewares, 1, "group.middlewares should have length 1")

	middleware2 := func(c *Ctx) { c.Next() }
	group.Use(middleware2)
	assert.Len(t, group.middlewares, 2, "group.middlewares should have length 2")
}

// TestGroupHandle tests the Handle method of Group
func TestGroupHandle(t *testing.T) {
	router := NewRouter()
	group := router.Group("/api")

	handler := func(c *Ctx) {}

	result := group.Handle("", MethodGet, handler)
	assert.Same(t, group, result, "Group.Handle() did not return the group")

	assert.Len(t, router.Routes, 1, "router.Routes should have length 1")

	route := router.Routes[0]
	assert.Equal(t, "/api", route.Pattern, "route.Pattern doesn't match expected value")
	assert.Equal(t, MethodGet, route.Method, "route.Method doesn't match expected value")
	assert.Len(t, route.Handlers, 1, "route.Handlers should have length 1")

	// Test with pattern that starts with /
	group.Handle("/users", MethodPost, handler)
	assert.Len(t, router.Routes, 2, "router.Routes should have length 2")

	route = router.Routes[1]
	assert.Equal(t, "/api/users", route.Pattern, "route.Pattern doesn't match expected value")
	assert.Equal(t, MethodPost, route.Method, "route.Method doesn't match expected value")

	// Test with pattern that doesn't start with /
	group.Handle("items", MethodPut, handler)
	assert.Len(t, router.Routes, 3, "router.Routes should have length 3")

	route = router.Routes[2]
	assert.Equal(t, "/api/items", route.Pattern, "route.Pattern doesn't match expected value")
	assert.Equal(t, MethodPut, route.Method, "route.Method doesn't match expected value")

	// Test with multiple handlers
	handler2 := func(c *Ctx) {}
	group.Handle("/multi", MethodDelete, handler, handler2)
	assert.Len(t, router.Routes, 4, "router.Routes should have length 4")

	route = router.Routes[3]
	assert.Equal(t, "/api/multi", route.Pattern, "route.Pattern doesn't match expected value")
	assert.Equal(t, MethodDelete, route.Method, "route.Method doesn't match expected value")
	assert.Len(t, route.Handlers, 2, "route.Handlers should have length 2")
}

// TestGroupHTTPMethods tests the HTTP method registration methods of Group
func TestGroupHTTPMethods(t *testing.T) {
	router := NewRouter()
	group := router.Group("/api")
	handler := func(c *Ctx) {}

	result := group.GET("/users", handler)
	assert.Same(t, group, result, "Group.GET() did not return the group")
	assert.Len(t, router.Routes, 1, "router.Routes should have length 1")
	assert.Equal(t, MethodGet, router.Routes[0].Method, "router.Routes[0].Method doesn't match expected value")

	group.HEAD("/users", handler)
	assert.Equal(t, MethodHead, router.Routes[1].Method, "router.Routes[1].Method doesn't match expected value")

	group.POST("/users", handler)
	assert.Equal(t, MethodPost, router.Routes[2].Method, "router.Routes[2].Method doesn't match expected value")

	group.PUT("/users", handler)
	assert.Equal(t, MethodPut, router.Routes[3].Method, "router.Routes[3].Method doesn't match expected value")

	group.DELETE("/users", handler)
	assert.Equal(t, MethodDelete, router.Routes[4].Method, "router.Routes[4].Method doesn't match expected value")

	group.CONNECT("/users", handler)
	assert.Equal(t, MethodConnect, router.Routes[5].Method, "router.Routes[5].Method doesn't match expected value")

	group.OPTIONS("/users", handler)
	assert.Equal(t, MethodOptions, router.Routes[6].Method, "router.Routes[6].Method doesn't match expected value")

	group.TRACE("/users", handler)
	assert.Equal(t, MethodTrace, router.Routes[7].Method, "router.Routes[7].Method doesn't match expected value")

	group.PATCH("/users", handler)
	assert.Equal(t, MethodPatch, router.Routes[8].Method, "router.Routes[8].Method doesn't match expected value")
}

// TestGroupSubGroup tests the Group method of Group
func TestGroupSubGroup(t *testing.T) {
	router := NewRouter()
	group := router.Group("/api")

	middleware := func(c *Ctx) { c.Next() }
	group.Use(middleware)

	subGroup := group.Group("/v1")
	assert.NotNil(t, subGroup, "Group.Group() returned nil")
	assert.Equal(t, "/api/v1", subGroup.prefix, "subGroup.prefix doesn't match expected value")
	assert.Same(t, router, subGroup.router, "subGroup.router is not the same as the router")
	assert.Len(t, subGroup.middlewares, 1, "subGroup.middlewares should have length 1")

	// Test with empty prefix
	subGroup2 := group.Group("")
	assert.Equal(t, "/api", subGroup2.prefix, "subGroup2.prefix doesn't match expected value")

	// Test with prefix that starts with /
	subGroup3 := group.Group("/v2")
	assert.Equal(t, "/api/v2", subGroup3.prefix, "subGroup3.prefix doesn't match expected value")

	// Test with prefix that doesn't start with /
	subGroup4 := group.Group("v3")
	assert.Equal(t, "/api/v3", subGroup4.prefix, "subGroup4.prefix doesn't match expected value")

	// Test nested sub-groups
	nestedGroup := subGroup.Group("/users")
	assert.Equal(t, "/api/v1/users", nestedGroup.prefix, "nestedGroup.prefix doesn't match expected value")
}
