package httpcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParamMapPool tests the paramMapPool
func TestParamMapPool(t *testing.T) {
	paramMap := paramMapPool.Get()
	assert.NotNil(t, paramMap, "paramMapPool.Get() should not return nil")
	assert.Empty(t, paramMap, "map from pool should be empty")
	paramMapPool.Put(paramMap)

	paramMap2 := paramMapPool.Get()
	assert.NotNil(t, paramMap2, "paramMapPool.Get() should not return nil on second call")
	assert.Empty(t, paramMap2, "map from pool should be empty")
	paramMapPool.Put(paramMap2)
}

// TestGetParamMap tests the getParamMap function
func TestGetParamMap(t *testing.T) {
	paramMap := getParamMap()
	assert.NotNil(t, paramMap, "getParamMap() should not return nil")
	assert.Empty(t, paramMap, "map from getParamMap() should be empty")

	paramMap["id"] = "123"
	paramMap["name"] = "John"

	assert.Equal(t, "123", paramMap["id"], "paramMap should store values correctly")
	assert.Equal(t, "John", paramMap["name"], "paramMap should store values correctly")

	releaseParamMap(paramMap)
}

// TestReleaseParamMap tests the releaseParamMap function
func TestReleaseParamMap(t *testing.T) {
	paramMap := getParamMap()
	paramMap["id"] = "123"
	paramMap["name"] = "John"

	releaseParamMap(paramMap)

	paramMap2 := getParamMap()
	assert.Empty(t, paramMap2, "map should be cleared after release")
	assert.Equal(t, "", paramMap2["id"], "map should be cleared after release")
	releaseParamMap(paramMap2)
}

// TestCapturesBytesAndInt tests typed capture projection.
func TestCapturesBytesAndInt(t *testing.T) {
	c := newCaptures(map[string]string{"post": "42", "message": "hi"})

	assert.Equal(t, "hi", string(c.Bytes("message")))
	assert.Equal(t, 42, c.Int("post"))

	// Missing capture clamps to 0 for Int, empty bytes for Bytes.
	assert.Equal(t, 0, c.Int("missing"))
	assert.Equal(t, "", string(c.Bytes("missing")))

	// Int parse failure also clamps to 0.
	c2 := newCaptures(map[string]string{"post": "not-a-number"})
	assert.Equal(t, 0, c2.Int("post"))
}

// TestCapturesOptional tests the optional accessors.
func TestCapturesOptional(t *testing.T) {
	c := newCaptures(map[string]string{"id": "7"})

	v, ok := c.OptInt("id")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = c.OptInt("missing")
	assert.False(t, ok)

	b, ok := c.OptBytes("id")
	assert.True(t, ok)
	assert.Equal(t, "7", string(b))
}

// TestCapturesProject tests struct-style projection against a schema.
func TestCapturesProject(t *testing.T) {
	c := newCaptures(map[string]string{"post": "42", "message": "hi"})
	schema := CaptureSchema{
		{Name: "post", Kind: CaptureInt},
		{Name: "message", Kind: CaptureBytes},
	}

	got := c.Project(schema)
	assert.Equal(t, 42, got["post"])
	assert.Equal(t, "hi", got["message"])
}
