package services

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyblackwell/Imagi-sub001/internal/models"
)

func newVCS() *VersionControlService {
	return &VersionControlService{
		locks:  NewProjectLocks(),
		logger: quietLogger(),
	}
}

func commitMessages(t *testing.T, path string) []string {
	t.Helper()

	repo, err := git.PlainOpen(path)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	require.NoError(t, err)
	defer iter.Close()

	var messages []string
	iter.ForEach(func(c *object.Commit) error {
		messages = append(messages, c.Message)
		return nil
	})
	return messages
}

func TestInitializeRepoCreatesInitialCommit(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(path, "manage.py"), []byte(""), 0o644))

	require.True(t, svc.InitializeRepo(path))

	messages := commitMessages(t, path)
	require.Len(t, messages, 1)
	assert.Equal(t, "Initial commit", messages[0])

	data, err := os.ReadFile(filepath.Join(path, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "__pycache__/")
	assert.Contains(t, string(data), "node_modules/")
}

func TestInitializeRepoIdempotent(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()

	require.True(t, svc.InitializeRepo(path))
	require.True(t, svc.InitializeRepo(path))

	assert.Len(t, commitMessages(t, path), 1)
}

func TestInitializeRepoEmptyTree(t *testing.T) {
	// An empty directory still gets a repository and an initial commit.
	svc := newVCS()
	path := t.TempDir()

	require.True(t, svc.InitializeRepo(path))
	assert.Len(t, commitMessages(t, path), 1)
}

func TestCommitChangesRecordsChange(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	require.NoError(t, os.WriteFile(filepath.Join(path, "index.html"), []byte("<html>"), 0o644))

	result := svc.CommitChanges(path, "Added index.html", "index.html")

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.CommitHash)

	messages := commitMessages(t, path)
	require.Len(t, messages, 2)
	assert.Equal(t, "Added index.html", messages[0])
}

func TestCommitChangesCleanTreeIsNoOp(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(path, "app.py"), []byte("x = 1"), 0o644))
	require.True(t, svc.InitializeRepo(path))

	result := svc.CommitChanges(path, "nothing changed", "")

	assert.True(t, result.Success)
	assert.Empty(t, result.CommitHash)
	assert.Equal(t, "no changes to commit", result.Message)
	assert.Len(t, commitMessages(t, path), 1)
}

func TestCommitChangesLazyInit(t *testing.T) {
	// Committing into a tree that was never initialized bootstraps the
	// repository first.
	svc := newVCS()
	path := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(path, "manage.py"), []byte(""), 0o644))

	result := svc.CommitChanges(path, "first save", "manage.py")

	assert.True(t, result.Success)
	// The initial commit already captured the tree, so this lands as the
	// no-op branch.
	messages := commitMessages(t, path)
	assert.GreaterOrEqual(t, len(messages), 1)
	assert.Equal(t, "Initial commit", messages[len(messages)-1])
}

func TestCommitChangesDefaultMessage(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	require.NoError(t, os.WriteFile(filepath.Join(path, "style.css"), []byte("body{}"), 0o644))

	result := svc.CommitChanges(path, "", "style.css")

	require.True(t, result.Success)
	messages := commitMessages(t, path)
	assert.Contains(t, messages[0], "Auto-save")
}

func TestCommitThenEditThenCommitHistoryOrder(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	require.NoError(t, os.WriteFile(filepath.Join(path, "a.html"), []byte("v1"), 0o644))
	first := svc.CommitChanges(path, "v1", "a.html")
	require.True(t, first.Success)

	require.NoError(t, os.WriteFile(filepath.Join(path, "a.html"), []byte("v2"), 0o644))
	second := svc.CommitChanges(path, "v2", "a.html")
	require.True(t, second.Success)

	assert.NotEqual(t, first.CommitHash, second.CommitHash)

	messages := commitMessages(t, path)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"v2", "v1", "Initial commit"}, messages)
}

func TestResetInvalidHashLeavesTreeUntouched(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	file := filepath.Join(path, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("current"), 0o644))
	require.True(t, svc.CommitChanges(path, "add page", "page.html").Success)

	for _, hash := range []string{"not-a-hash", "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"} {
		result := svc.reset(path, hash)
		assert.False(t, result.Success, "hash %q must fail", hash)

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, "current", string(data))
	}
	assert.Len(t, commitMessages(t, path), 2)
}

func TestResetRestoresPriorContent(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	file := filepath.Join(path, "page.html")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0o644))
	first := svc.CommitChanges(path, "v1", "page.html")
	require.True(t, first.Success)

	require.NoError(t, os.WriteFile(file, []byte("v2"), 0o644))
	require.True(t, svc.CommitChanges(path, "v2", "page.html").Success)

	result := svc.reset(path, first.CommitHash)
	require.True(t, result.Success)
	assert.Equal(t, first.CommitHash, result.CommitHash)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestHistoryMostRecentFirst(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()
	require.True(t, svc.InitializeRepo(path))

	require.NoError(t, os.WriteFile(filepath.Join(path, "f.py"), []byte("1"), 0o644))
	require.True(t, svc.CommitChanges(path, "second", "f.py").Success)

	records := svc.history(path)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Message)
	assert.Equal(t, "Initial commit", records[1].Message)
	assert.Contains(t, records[0].Author, "Imagi")
	assert.NotEmpty(t, records[0].RelativeDate)
	assert.NotEmpty(t, records[0].Date)
}

func TestHistoryLazyInitEmpty(t *testing.T) {
	svc := newVCS()
	path := t.TempDir()

	// Never initialized: lazily bootstrapped, and a brand-new repo reports
	// its initial commit rather than erroring.
	records := svc.history(path)
	assert.Len(t, records, 1)
}

func TestGeneratedProjectEditCommitFlow(t *testing.T) {
	scaffold := NewScaffoldService(quietLogger())
	root := filepath.Join(t.TempDir(), "e2e")

	project := &models.Project{Name: "E2E", Slug: "e2e", ProjectPath: root}
	project.Prepare()
	require.NoError(t, scaffold.Generate(project))

	vcs := newVCS()
	require.True(t, vcs.InitializeRepo(root))

	// A new vue file lands under the frontend src tree.
	layout := DetectLayout(root)
	rel := placementFor("index.vue", "vue", layout)
	assert.Equal(t, "frontend/vuejs/src/index.vue", rel)

	files := &FileService{logger: quietLogger()}
	_, err := files.writeFile(root, rel, "<template></template>")
	require.NoError(t, err)

	result := vcs.CommitChanges(root, "Added index.vue", rel)
	require.True(t, result.Success)
	require.NotEmpty(t, result.CommitHash)

	records := vcs.history(root)
	require.GreaterOrEqual(t, len(records), 2)
	assert.Equal(t, "Added index.vue", records[0].Message)
	assert.NotEqual(t, records[0].Hash, records[1].Hash)
}
