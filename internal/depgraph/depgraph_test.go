package depgraph

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tLoader struct{}
type tParser struct{}
type tCache struct{}

func TestStack_Push(t *testing.T) {
	t.Parallel()

	loader := reflect.TypeOf(&tLoader{})
	parser := reflect.TypeOf(&tParser{})

	s := NewStack()
	require.Equal(t, 0, s.Depth())

	s1, err := s.Push(loader)
	require.NoError(t, err)
	require.Equal(t, 1, s1.Depth())

	s2, err := s1.Push(parser)
	require.NoError(t, err)
	require.Equal(t, 2, s2.Depth())

	// The original stacks are not mutated by later pushes.
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 1, s1.Depth())
}

func TestStack_PushDetectsCycle(t *testing.T) {
	t.Parallel()

	loader := reflect.TypeOf(&tLoader{})
	parser := reflect.TypeOf(&tParser{})

	s, err := NewStack().Push(loader)
	require.NoError(t, err)
	s, err = s.Push(parser)
	require.NoError(t, err)

	_, err = s.Push(loader)
	require.Error(t, err)

	var cycleErr CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []reflect.Type{loader, parser, loader}, cycleErr.Chain)
	assert.Contains(t, cycleErr.Error(), "*tLoader -> *tParser -> *tLoader")
}

func TestStack_SiblingPushesAreIndependent(t *testing.T) {
	t.Parallel()

	loader := reflect.TypeOf(&tLoader{})
	parser := reflect.TypeOf(&tParser{})
	cache := reflect.TypeOf(&tCache{})

	root, err := NewStack().Push(loader)
	require.NoError(t, err)

	// Two dependencies resolved from the same initiator must not see each
	// other's frames.
	left, err := root.Push(parser)
	require.NoError(t, err)
	right, err := root.Push(cache)
	require.NoError(t, err)

	_, err = left.Push(cache)
	assert.NoError(t, err)
	_, err = right.Push(parser)
	assert.NoError(t, err)
}

func TestStack_Path(t *testing.T) {
	t.Parallel()

	loader := reflect.TypeOf(&tLoader{})
	s, err := NewStack().Push(loader)
	require.NoError(t, err)

	path := s.Path()
	require.Equal(t, []reflect.Type{loader}, path)

	// Mutating the returned slice does not affect the stack.
	path[0] = reflect.TypeOf(&tParser{})
	assert.Equal(t, []reflect.Type{loader}, s.Path())
}
