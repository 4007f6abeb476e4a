package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

type stubBuilder struct {
	name string
}

func (s stubBuilder) Name() string { return s.name }
func (s stubBuilder) Build(rows []columnar.Row) (any, error) {
	return map[string]int{"count": len(rows)}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubBuilder{name: "stats"}))

	b, err := r.Get("stats")
	require.NoError(t, err)
	assert.Equal(t, "stats", b.Name())
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubBuilder{name: "stats"}))

	err := r.Register(stubBuilder{name: "stats"})
	assert.Error(t, err)
	var dup *ErrDuplicateBuilder
	assert.ErrorAs(t, err, &dup)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()
	err := r.Register(stubBuilder{name: ""})
	assert.Error(t, err)
	var empty *ErrEmptyBuilderName
	assert.ErrorAs(t, err, &empty)
	assert.Empty(t, r.List())
}

func TestRegistryUnknownBuilder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubBuilder{name: "stats"}))

	_, err := r.Get("missing")
	assert.Error(t, err)
	var unk *ErrUnknownBuilder
	assert.ErrorAs(t, err, &unk)
	assert.Equal(t, []string{"stats"}, r.List())
}
