package ident

import (
	"encoding/json"
	"testing"

	"clone-social-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeID(t *testing.T) {
	valid := []string{
		"3f16d31e-7a70-4b38-9a1c-0d3c5a9e6f21",
		"652f8a1b9c3d4e5f6a7b8c9d",
		"1761560316",
		"  1761560316  ",
	}
	for _, s := range valid {
		assert.True(t, LooksLikeID(s), "expected %q to be accepted", s)
	}

	invalid := []string{
		"",
		"   ",
		"alice",
		"user@example.com",
		"3f16d31e-7a70-4b38-9a1c",
		"{3f16d31e-7a70-4b38-9a1c-0d3c5a9e6f21}",
		"urn:uuid:3f16d31e-7a70-4b38-9a1c-0d3c5a9e6f21",
		"3f16d31e7a704b389a1c0d3c5a9e6f21",  // undashed 32 hex
		"3f16d31e:7a70:4b38:9a1c:0d3c5a9e6f21",
		"652f8a1b9c3d4e5f6a7b8c9",   // 23 hex chars
		"652f8a1b9c3d4e5f6a7b8c9dz", // trailing non-hex
		"12 34",
	}
	for _, s := range invalid {
		assert.False(t, LooksLikeID(s), "expected %q to be rejected", s)
	}
}

func TestResolveString(t *testing.T) {
	assert.Equal(t, "1761560316", Resolve(" 1761560316 "))
	assert.Equal(t, "", Resolve("not an id"))
	assert.Equal(t, "", Resolve(nil))
}

func TestResolveUser(t *testing.T) {
	user := models.User{ID: "652f8a1b9c3d4e5f6a7b8c9d"}
	assert.Equal(t, "652f8a1b9c3d4e5f6a7b8c9d", Resolve(user))
	assert.Equal(t, "652f8a1b9c3d4e5f6a7b8c9d", Resolve(&user))

	var missing *models.User
	assert.Equal(t, "", Resolve(missing))
}

func TestResolveMapPrecedence(t *testing.T) {
	entity := map[string]interface{}{
		"user_id": "222",
		"_id":     "111",
		"id":      "333",
	}
	assert.Equal(t, "333", Resolve(entity))

	delete(entity, "id")
	assert.Equal(t, "111", Resolve(entity))

	delete(entity, "_id")
	assert.Equal(t, "222", Resolve(entity))

	assert.Equal(t, "444", Resolve(map[string]interface{}{"userId": "444"}))
	assert.Equal(t, "", Resolve(map[string]interface{}{"name": "alice"}))
}

func TestResolveNumericID(t *testing.T) {
	// a JSON-decoded numeric id arrives as float64
	var entity map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":1761560316}`), &entity))
	assert.Equal(t, "1761560316", Resolve(entity))

	assert.Equal(t, "42", Resolve(map[string]interface{}{"user_id": json.Number("42")}))
	assert.Equal(t, "", Resolve(map[string]interface{}{"id": true}))
}
