package pageindex

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

func mkChunk(id, filePath string, nodeType types.NodeType, name, code string) types.EmbeddedChunk {
	return types.EmbeddedChunk{
		ID:        id,
		FilePath:  filePath,
		Language:  "go",
		NodeType:  nodeType,
		Name:      name,
		Code:      code,
		StartLine: 1,
		EndLine:   10,
		Embedding: []float32{0.1, -0.2, 0.3, -0.4},
	}
}

func seedStore(t *testing.T) *store.Store {
	t.Helper()

	s := store.New()
	err := s.Insert([]types.EmbeddedChunk{
		mkChunk("c1", "src/db/pool.go", types.NodeFunction, "ConnectDatabase", "func ConnectDatabase() { openPool() }"),
		mkChunk("c2", "src/db/pool.go", types.NodeFunction, "ClosePool", "func ClosePool() { drain() }"),
		mkChunk("c3", "src/db/pool.go", types.NodeFileSummary, "pool.go", "Database connection pooling: open, reuse, and close pooled connections."),
		mkChunk("c4", "src/http/server.go", types.NodeFunction, "StartServer", "func StartServer() { listenAndServe() }"),
		mkChunk("c5", "src/db", types.NodeDirectorySummary, "db", "Database access layer: pooling and query helpers."),
	})
	require.NoError(t, err)
	return s
}

func TestBuildStructure(t *testing.T) {
	s := seedStore(t)
	tree := Build(s)

	require.False(t, tree.Empty())
	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, LevelRoot, root.Level)
	assert.Equal(t, []string{"dir:src/db", "dir:src/http"}, root.ChildIDs)

	db := tree.Nodes["dir:src/db"]
	require.NotNil(t, db)
	assert.Equal(t, LevelDirectory, db.Level)
	assert.Equal(t, []string{"file:src/db/pool.go"}, db.ChildIDs)
	// dedicated directory summary wins over the synthesized listing
	assert.Contains(t, db.Summary, "Database access layer")

	file := tree.Nodes["file:src/db/pool.go"]
	require.NotNil(t, file)
	assert.Equal(t, LevelFile, file.Level)
	// dedicated file summary wins over the first chunk's code
	assert.Contains(t, file.Summary, "connection pooling")
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, file.ChunkIDs)

	httpDir := tree.Nodes["dir:src/http"]
	require.NotNil(t, httpDir)
	// no dedicated summary: fall back to the file listing
	assert.True(t, strings.HasPrefix(httpDir.Summary, "Contains: "))
	assert.Contains(t, httpDir.Summary, "server.go")
}

func TestBuildDeterministic(t *testing.T) {
	s := seedStore(t)

	a := Build(s)
	b := Build(s)

	require.Equal(t, a.RootID, b.RootID)
	require.Equal(t, len(a.Nodes), len(b.Nodes))
	for id, na := range a.Nodes {
		nb, ok := b.Nodes[id]
		require.True(t, ok, "node %s missing from second build", id)
		assert.Equal(t, na.Summary, nb.Summary)
		assert.Equal(t, na.ChildIDs, nb.ChildIDs)
		assert.Equal(t, na.ChunkIDs, nb.ChunkIDs)
	}
}

func TestChunkUnionInvariant(t *testing.T) {
	s := seedStore(t)
	tree := Build(s)

	// Each directory's ChunkIDs is exactly the union of its children's.
	for _, node := range tree.Nodes {
		if node.Level != LevelDirectory {
			continue
		}
		var union []string
		for _, childID := range node.ChildIDs {
			union = append(union, tree.Nodes[childID].ChunkIDs...)
		}
		assert.ElementsMatch(t, union, node.ChunkIDs, "node %s", node.ID)
	}

	// Every retrievable chunk belongs to exactly one file node; directory
	// summaries contribute text only and own no chunk slot.
	owners := make(map[string]int)
	for _, node := range tree.Nodes {
		if node.Level != LevelFile {
			continue
		}
		for _, id := range node.ChunkIDs {
			owners[id]++
		}
	}
	for _, c := range s.GetAll() {
		if c.NodeType == types.NodeDirectorySummary {
			assert.Zero(t, owners[c.ID], "directory summary %s leaked into ChunkIDs", c.ID)
			continue
		}
		assert.Equal(t, 1, owners[c.ID], "chunk %s must belong to exactly one file node", c.ID)
	}
}

func TestSummaryOnlyDirectoryGetsNode(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Insert([]types.EmbeddedChunk{
		mkChunk("f1", "src/api/handler.go", types.NodeFunction, "Handle", "func Handle() {}"),
		mkChunk("d1", "src/docs", types.NodeDirectorySummary, "docs", "Design notes and protocol documentation."),
	}))

	tree := Build(s)

	node := tree.Nodes["dir:src/docs"]
	require.NotNil(t, node, "summary-only directory must still get a node")
	assert.Contains(t, node.Summary, "protocol documentation")
	assert.Empty(t, node.ChildIDs)
	assert.Empty(t, node.ChunkIDs)
	assert.Contains(t, tree.Root().ChildIDs, "dir:src/docs")
}

func TestTruncateRuneBoundary(t *testing.T) {
	// 2-byte runes; an odd cap would split one without the boundary trim.
	long := strings.Repeat("é", 400)

	got := truncate(long, 601)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 600, len(got))

	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abc", 2))
}

func TestBuildEmptyStore(t *testing.T) {
	tree := Build(store.New())
	assert.True(t, tree.Empty())
	assert.Nil(t, tree.Root())
}

func TestSummaryCaps(t *testing.T) {
	s := store.New()
	long := strings.Repeat("x", 2000)
	require.NoError(t, s.Insert([]types.EmbeddedChunk{
		mkChunk("c1", "a/big.go", types.NodeFileSummary, "big.go", long),
		mkChunk("c2", "a", types.NodeDirectorySummary, "a", long),
	}))

	tree := Build(s)
	assert.LessOrEqual(t, len(tree.Nodes["file:a/big.go"].Summary), fileSummaryCap)
	assert.LessOrEqual(t, len(tree.Nodes["dir:a"].Summary), dirSummaryCap)
	assert.LessOrEqual(t, len(tree.Root().Summary), rootSummaryCap)
}

func TestGreedyNavigationReachesRelevantFile(t *testing.T) {
	s := seedStore(t)
	tree := Build(s)

	got := Search(tree, s, "connect database pool", StrategyGreedy, 10)

	require.NotEmpty(t, got.Results)
	assert.Equal(t, "c1", got.Results[0].Chunk.ID)
	assert.NotEmpty(t, got.Results[0].Embedding)
	// path runs root → directory → file
	require.Len(t, got.Path, 3)
	assert.Equal(t, "root", got.Path[0])
	assert.Equal(t, "dir:src/db", got.Path[1])
	assert.Equal(t, "file:src/db/pool.go", got.Path[2])
}

func TestBeamNavigationCoversBothDirectories(t *testing.T) {
	s := seedStore(t)
	tree := Build(s)

	got := Search(tree, s, "start server listen", StrategyBeam, 10)

	require.NotEmpty(t, got.Results)
	assert.Equal(t, "c4", got.Results[0].Chunk.ID)

	ids := make(map[string]bool)
	for _, r := range got.Results {
		ids[r.Chunk.ID] = true
	}
	// beam width 2 keeps both directories alive, so db chunks surface too
	assert.True(t, ids["c4"])
	assert.True(t, ids["c1"] || ids["c2"] || ids["c3"])
}

func TestSearchEmptyTree(t *testing.T) {
	got := Search(&Tree{}, store.New(), "anything", StrategyGreedy, 10)
	assert.Empty(t, got.Results)
	assert.Empty(t, got.Path)
}

func TestSearchLimit(t *testing.T) {
	s := seedStore(t)
	tree := Build(s)

	got := Search(tree, s, "pool", StrategyGreedy, 1)
	assert.Len(t, got.Results, 1)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "", want: StrategyGreedy},
		{in: "greedy", want: StrategyGreedy},
		{in: "beam", want: StrategyBeam},
		{in: "dfs", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
