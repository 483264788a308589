package pageindex

import (
	"path"
	"sort"
	"strings"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

const rootID = "root"

// Build constructs the hierarchical index from the store's current
// contents. The build is deterministic: an unchanged store yields a
// structurally identical tree.
func Build(s *store.Store) *Tree {
	chunks := s.GetAll()

	tree := &Tree{Nodes: make(map[string]*Node)}
	if len(chunks) == 0 {
		return tree
	}

	// Group by file; dedicated directory summaries are keyed by the
	// directory path they carry in FilePath.
	fileChunks := make(map[string][]*types.EmbeddedChunk)
	dirSummaries := make(map[string][]*types.EmbeddedChunk)
	for _, c := range chunks {
		if c.NodeType == types.NodeDirectorySummary {
			dirSummaries[c.FilePath] = append(dirSummaries[c.FilePath], c)
			continue
		}
		fileChunks[c.FilePath] = append(fileChunks[c.FilePath], c)
	}

	filePaths := make([]string, 0, len(fileChunks))
	for p := range fileChunks {
		filePaths = append(filePaths, p)
	}
	sort.Strings(filePaths)

	// Level 2: file nodes
	dirFiles := make(map[string][]string) // dir path → file node ids
	for _, filePath := range filePaths {
		node := buildFileNode(filePath, fileChunks[filePath])
		tree.Nodes[node.ID] = node

		dir := path.Dir(filePath)
		dirFiles[dir] = append(dirFiles[dir], node.ID)
	}

	// A directory carrying only a dedicated summary still gets a node so
	// its summary text can steer navigation.
	dirPaths := make([]string, 0, len(dirFiles)+len(dirSummaries))
	for d := range dirFiles {
		dirPaths = append(dirPaths, d)
	}
	for d := range dirSummaries {
		if _, ok := dirFiles[d]; !ok {
			dirPaths = append(dirPaths, d)
		}
	}
	sort.Strings(dirPaths)

	// Level 1: directory nodes
	root := &Node{ID: rootID, Level: LevelRoot, Path: ""}
	var rootParts []string
	for _, dir := range dirPaths {
		node := buildDirNode(dir, dirFiles[dir], dirSummaries[dir], tree)
		tree.Nodes[node.ID] = node

		root.ChildIDs = append(root.ChildIDs, node.ID)
		root.ChunkIDs = append(root.ChunkIDs, node.ChunkIDs...)
		if len(rootParts) < rootMaxDirs {
			rootParts = append(rootParts, dir+": "+truncate(node.Summary, rootDirEntryCap))
		}
	}

	// Level 0: single root aggregating directory summaries
	root.Summary = truncate(strings.Join(rootParts, "\n"), rootSummaryCap)
	tree.Nodes[rootID] = root
	tree.RootID = rootID

	return tree
}

// buildFileNode summarizes one file. A dedicated file_summary chunk wins
// (longest, if several); otherwise the first ordinary chunk's code
// stands in.
func buildFileNode(filePath string, chunks []*types.EmbeddedChunk) *Node {
	node := &Node{
		ID:    "file:" + filePath,
		Level: LevelFile,
		Path:  filePath,
	}

	var summaryChunk *types.EmbeddedChunk
	for _, c := range chunks {
		node.ChunkIDs = append(node.ChunkIDs, c.ID)
		if c.NodeType == types.NodeFileSummary {
			if summaryChunk == nil || len(c.Code) > len(summaryChunk.Code) {
				summaryChunk = c
			}
		}
	}

	if summaryChunk != nil {
		node.Summary = truncate(summaryChunk.Code, fileSummaryCap)
	} else if len(chunks) > 0 {
		node.Summary = truncate(chunks[0].Code, fileFallbackCap)
	}

	return node
}

// buildDirNode summarizes one directory over its file nodes. A dedicated
// directory_summary chunk wins; otherwise a listing of child file names
// is synthesized. Summary chunks contribute text only, keeping ChunkIDs
// the exact union of the child file nodes.
func buildDirNode(dir string, fileIDs []string, summaries []*types.EmbeddedChunk, tree *Tree) *Node {
	node := &Node{
		ID:       "dir:" + dir,
		Level:    LevelDirectory,
		Path:     dir,
		ChildIDs: fileIDs,
	}

	var names []string
	for _, fileID := range fileIDs {
		child := tree.Nodes[fileID]
		node.ChunkIDs = append(node.ChunkIDs, child.ChunkIDs...)
		names = append(names, path.Base(child.Path))
	}

	if len(summaries) > 0 {
		longest := summaries[0]
		for _, c := range summaries[1:] {
			if len(c.Code) > len(longest.Code) {
				longest = c
			}
		}
		node.Summary = truncate(longest.Code, dirSummaryCap)
	} else {
		node.Summary = truncate("Contains: "+strings.Join(names, ", "), dirListingCap)
	}

	return node
}
