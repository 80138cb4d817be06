package apipath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoot(t *testing.T) {
	assert.Equal(t, "/api/v1", V1.Root())
	assert.Equal(t, "/api/v1", V1.Path().String())
}

func TestResourcePaths(t *testing.T) {
	base := V1.Path().Constant("notes")
	assert.Equal(t, "/api/v1/notes", base.String())
	assert.Equal(t, "/api/v1/notes/{noteID}", base.Parameter("noteID").String())
	assert.Equal(t, "/api/v1/notes/sorted", base.Constant("sorted").String())
}

func TestNestedComposition(t *testing.T) {
	users := V1.Path().Constant("users").Parameter("userID")
	notes := users.Constant("notes").Parameter("noteID")
	categories := notes.Constant("categories").Parameter("categoryID")

	assert.Equal(t, "/api/v1/users/{userID}/notes/{noteID}/categories/{categoryID}", categories.String())
	// Extending a child never mutates the parent.
	assert.Equal(t, "/api/v1/users/{userID}", users.String())
}

func TestVersionOverride(t *testing.T) {
	v2 := Version{API: "api", Version: "v2"}
	assert.Equal(t, "/api/v2/users", v2.Path().Constant("users").String())
}
