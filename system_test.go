package clauseindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystem(t *testing.T) {
	t.Run("create new system", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "index")
		sys, err := NewSystem(dataDir)
		require.NoError(t, err)
		require.NotNil(t, sys)
		defer sys.Close()

		assert.NotNil(t, sys.RegulationStore())
		assert.NotNil(t, sys.OthersStore())
		assert.NotNil(t, sys.DocumentRepository())
		assert.Equal(t, filepath.Join(dataDir, "citations"), sys.CitationsDir())
	})

	t.Run("error with invalid metadata path", func(t *testing.T) {
		dataDir := t.TempDir()
		// Occupy the metadata path with a file so badger cannot open it.
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "metadata"), []byte("x"), 0644))

		sys, err := NewSystem(dataDir)
		assert.Error(t, err)
		assert.Nil(t, sys)
	})
}

func TestSystemClose(t *testing.T) {
	sys, err := NewSystem(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, sys.Close())
}

func TestSystemFactoryMethods(t *testing.T) {
	sys, err := NewSystem(t.TempDir())
	require.NoError(t, err)
	defer sys.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := sys.NewPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher with empty citation graph", func(t *testing.T) {
		searcher, err := sys.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create graph builder", func(t *testing.T) {
		builder, err := sys.NewGraphBuilder()
		require.NoError(t, err)
		require.NotNil(t, builder)
	})
}
