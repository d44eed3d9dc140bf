package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	factory := func() (Extractor, error) { return NewEntityExtractor(1), nil }

	require.NoError(t, r.Register("entity", factory))
	err := r.Register("entity", factory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RegisterValidatesInput(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register("", func() (Extractor, error) { return nil, nil }))
	assert.Error(t, r.Register("entity", nil))
}

func TestRegistry_NewUnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown algorithm")
}

func TestRegistry_NamesSortedAndNewAll(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(PhraseName, func() (Extractor, error) { return NewPhraseExtractor(1, 2), nil }))
	require.NoError(t, r.Register(EntityName, func() (Extractor, error) { return NewEntityExtractor(1), nil }))

	assert.Equal(t, []string{EntityName, PhraseName}, r.Names())

	all, err := r.NewAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, EntityName, all[0].Name())
	assert.Equal(t, PhraseName, all[1].Name())
}
