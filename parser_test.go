package bootkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) (*StandardSourceParser, *StrategySelector, Registry) {
	t.Helper()

	c := newTestStandard(t)
	selector, err := Resolve[*StrategySelector](c)
	require.NoError(t, err)
	loader, err := Resolve[ResourceLoader](c)
	require.NoError(t, err)

	return NewStandardSourceParser(loader, selector), selector, c
}

func TestStandardSourceParser_Direct(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	tests := []struct {
		name string
		ref  any
		want int
	}{
		{"single mapping value", EntityMapping{Name: "User"}, 1},
		{"single mapping pointer", &EntityMapping{Name: "User"}, 1},
		{"mapping slice", []EntityMapping{{Name: "User"}, {Name: "Order"}}, 2},
		{"contribution value", ModelContribution{Entities: []EntityMapping{{Name: "User"}}}, 1},
		{"contribution pointer", &ModelContribution{Entities: []EntityMapping{{Name: "User"}}}, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			contribution, err := parser.Parse(SourceDescriptor{Kind: SourceDirect, Ref: tt.ref}, reg)
			require.NoError(t, err)
			assert.Len(t, contribution.Entities, tt.want)
		})
	}
}

func TestStandardSourceParser_DirectDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	original := &EntityMapping{Name: "User", Attributes: map[string]string{"id": "int64"}}
	contribution, err := parser.Parse(SourceDescriptor{Kind: SourceDirect, Ref: original}, reg)
	require.NoError(t, err)

	contribution.Entities[0].Attributes["id"] = "string"
	assert.Equal(t, "int64", original.Attributes["id"])
}

func TestStandardSourceParser_UnsupportedDirectType(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	_, err := parser.Parse(SourceDescriptor{Kind: SourceDirect, Ref: 42}, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported direct reference type")
}

func TestStandardSourceParser_Named(t *testing.T) {
	t.Parallel()

	parser, selector, reg := newTestParser(t)

	RegisterNamedSource(selector, "users", ModelContribution{
		Entities: []EntityMapping{{Name: "User", Table: "users"}},
	})

	contribution, err := parser.Parse(SourceDescriptor{Kind: SourceName, Name: "users"}, reg)
	require.NoError(t, err)
	require.Len(t, contribution.Entities, 1)
	assert.Equal(t, "User", contribution.Entities[0].Name)
	assert.Equal(t, "users", contribution.Entities[0].Source)
}

func TestStandardSourceParser_NamedUnknown(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	_, err := parser.Parse(SourceDescriptor{Kind: SourceName, Name: "nope"}, reg)
	require.Error(t, err)

	var unknownErr UnknownStrategyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "nope", unknownErr.Name)
}

func TestStandardSourceParser_Resource(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "users.yaml", `
entities:
  - name: User
    table: app_users
    schema: app
    attributes:
      id: int64
      email: string
  - name: Role
`)

	parser, _, reg := newTestParser(t)

	contribution, err := parser.Parse(SourceDescriptor{Kind: SourceResource, Locator: path}, reg)
	require.NoError(t, err)
	require.Len(t, contribution.Entities, 2)

	user := contribution.Entities[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "app_users", user.Table)
	assert.Equal(t, "app", user.Schema)
	assert.Equal(t, map[string]string{"id": "int64", "email": "string"}, user.Attributes)
	assert.Equal(t, path, user.Source)

	role := contribution.Entities[1]
	assert.Equal(t, "Role", role.Name)
	assert.NotNil(t, role.Attributes)
}

func TestStandardSourceParser_ResourceMissing(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	_, err := parser.Parse(SourceDescriptor{Kind: SourceResource, Locator: "missing.yaml"}, reg)
	require.Error(t, err)
}

func TestStandardSourceParser_EntityWithoutName(t *testing.T) {
	t.Parallel()

	parser, _, reg := newTestParser(t)

	_, err := parser.Parse(SourceDescriptor{
		Kind: SourceDirect,
		Ref:  EntityMapping{Table: "orphan"},
	}, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}
