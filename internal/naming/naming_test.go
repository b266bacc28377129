package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"GET /users", "get-users"},
		{"GET /users/{id}", "get-users-id"},
		{"POST /api/v1/items/{item_id}/import", "post-api-v1-items-item-id-import"},
		{"  --Hello,   World!!  ", "hello-world"},
		{"Crème Brûlée", "creme-brulee"},
		{"", ""},
		{"///", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"children", "child"},
		{"people", "person"},
		{"data", "datum"},
		{"feet", "foot"},
		{"teeth", "tooth"},
		{"geese", "goose"},
		{"men", "man"},
		{"women", "woman"},
		{"users", "user"},
		{"categories", "category"},
		{"boxes", "box"},
		{"user", "user"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Singularize(tt.input))
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		wantDesc string
		wantTags []string
	}{
		{"GET", "/users", "List users", []string{"users"}},
		{"GET", "/api/v1/users", "List users", []string{"users"}},
		{"GET", "/users/{id}", "Retrieve user", []string{"users"}},
		{"DELETE", "/rest/v2/children/{id}", "Delete child", []string{"children"}},
		{"POST", "/users", "Create users", []string{"users"}},
		{"PUT", "/users/{id}", "Update user", []string{"users"}},
		{"PATCH", "/users/{id}", "Patch user", []string{"users"}},
		{"POST", "/items/import", "Import items", []string{"items", "import"}},
		{"GET", "/users/search", "Search users", []string{"users", "search"}},
		{"GET", "/users/{id}/blog-posts", "List blog posts", []string{"blog-posts"}},
		{"HEAD", "/health", "Head health", []string{"health"}},
		{"GET", "/", "List root", nil},
		{"GET", "/api/v1", "List root", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			desc, tags := Describe(tt.method, tt.path)
			assert.Equal(t, tt.wantDesc, desc)
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}
