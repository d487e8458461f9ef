package bootkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImplicitNamingStrategy(t *testing.T) {
	t.Parallel()

	s := ImplicitNamingStrategy{}
	assert.Equal(t, "userprofile", s.TableName("UserProfile"))
	assert.Equal(t, "createdat", s.ColumnName("createdAt"))
	assert.Equal(t, "order", s.TableName("order"))
}

func TestSnakeNamingStrategy(t *testing.T) {
	t.Parallel()

	s := SnakeNamingStrategy{}
	assert.Equal(t, "user_profile", s.TableName("UserProfile"))
	assert.Equal(t, "created_at", s.ColumnName("createdAt"))
}

func TestToSnake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"User", "user"},
		{"user", "user"},
		{"UserProfile", "user_profile"},
		{"userProfile", "user_profile"},
		{"HTTPCode", "http_code"},
		{"parseURL", "parse_url"},
		{"already_snake", "already_snake"},
		{"ID", "id"},
		{"OrderV2", "order_v2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toSnake(tt.in))
		})
	}
}
