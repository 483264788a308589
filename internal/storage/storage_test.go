package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

func openMemorySnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })
	return snap
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()

	st := store.New()
	err := st.Insert([]types.EmbeddedChunk{
		{
			ID: "c1", FilePath: "src/a.ts", Language: "typescript", NodeType: types.NodeFunction,
			Name: "alpha", Code: "function alpha() {}", StartLine: 1, EndLine: 1,
			Embedding: []float32{0.25, -1.5, 3.0, 0},
		},
		{
			ID: "c2", FilePath: "src/b.ts", Language: "typescript", NodeType: types.NodeClass,
			Name: "Beta", Code: "class Beta {}", StartLine: 2, EndLine: 8,
			Embedding: []float32{-0.125, 0.5, 0, 1},
		},
	})
	require.NoError(t, err)

	st.SetGraph(types.DependencyGraph{
		"src/a.ts": {Imports: []string{"./b"}, Definitions: []string{"alpha"}},
		"src/b.ts": {Definitions: []string{"Beta"}},
	})
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := openMemorySnapshot(t)
	src := seededStore(t)

	require.NoError(t, snap.Save(context.Background(), src))

	dst := store.New()
	require.NoError(t, snap.Load(context.Background(), dst))

	require.Equal(t, src.Len(), dst.Len())
	assert.Equal(t, src.Dimension(), dst.Dimension())

	srcChunks, dstChunks := src.GetAll(), dst.GetAll()
	for i := range srcChunks {
		assert.Equal(t, srcChunks[i].ID, dstChunks[i].ID, "insertion order must survive the round trip")
		assert.Equal(t, srcChunks[i].FilePath, dstChunks[i].FilePath)
		assert.Equal(t, srcChunks[i].NodeType, dstChunks[i].NodeType)
		assert.Equal(t, srcChunks[i].Code, dstChunks[i].Code)
		assert.Equal(t, srcChunks[i].Embedding, dstChunks[i].Embedding, "embeddings must be bit-exact")
	}

	graph := dst.Graph()
	require.Len(t, graph, 2)
	assert.Equal(t, []string{"./b"}, graph["src/a.ts"].Imports)
	assert.Equal(t, []string{"alpha"}, graph["src/a.ts"].Definitions)
	assert.Empty(t, graph["src/b.ts"].Imports)
	assert.Equal(t, []string{"Beta"}, graph["src/b.ts"].Definitions)
}

func TestSnapshotSaveOverwrites(t *testing.T) {
	snap := openMemorySnapshot(t)

	require.NoError(t, snap.Save(context.Background(), seededStore(t)))

	// a second save replaces the first snapshot entirely
	small := store.New()
	require.NoError(t, small.Insert([]types.EmbeddedChunk{{
		ID: "only", FilePath: "x.go", Language: "go", NodeType: types.NodeFunction,
		Name: "Only", Code: "func Only() {}", StartLine: 1, EndLine: 1,
		Embedding: []float32{1, 2, 3, 4},
	}}))
	require.NoError(t, snap.Save(context.Background(), small))

	count, err := snap.ChunkCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	dst := store.New()
	require.NoError(t, snap.Load(context.Background(), dst))
	assert.Equal(t, 1, dst.Len())
	assert.Empty(t, dst.Graph())
}

func TestSnapshotLoadEmpty(t *testing.T) {
	snap := openMemorySnapshot(t)

	dst := store.New()
	require.NoError(t, snap.Load(context.Background(), dst))
	assert.Equal(t, 0, dst.Len())
}

func TestVectorCodec(t *testing.T) {
	vectors := [][]float32{
		{},
		{0},
		{1.5, -2.25, 3.75},
		{-0.0001, 1e30, -1e-30},
	}

	for _, v := range vectors {
		got := deserializeVector(serializeVector(v))
		require.Len(t, got, len(v))
		for i := range v {
			assert.Equal(t, v[i], got[i])
		}
	}
}
