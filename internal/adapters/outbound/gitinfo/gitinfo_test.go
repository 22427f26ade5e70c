package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	f := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("hello"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")

	fromFile, err := gi.CommitHash(f)
	require.NoError(t, err)
	assert.Equal(t, hash, fromFile, "a file changed in the only commit maps to it")
}

func TestGitInfo_CommitHash_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	sub := filepath.Join(dir, "invoices", "2024")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inv.yaml"), []byte("items: []"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "invoice")

	hash, err := gitinfo.New().CommitHash(filepath.Join(sub, "inv.yaml"))
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestGitInfo_CommitHash_LastCommitTouchingFile(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	inv := filepath.Join(dir, "inv.yaml")
	require.NoError(t, os.WriteFile(inv, []byte("items: []"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "invoice")

	gi := gitinfo.New()
	first, err := gi.CommitHash(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "unrelated")

	head, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, head)

	got, err := gi.CommitHash(inv)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestGitInfo_CommitHash_UntrackedFileFallsBackToHead(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	draft := filepath.Join(dir, "draft.yaml")
	require.NoError(t, os.WriteFile(draft, []byte("items: []"), 0644))

	gi := gitinfo.New()
	head, err := gi.CommitHash(dir)
	require.NoError(t, err)
	got, err := gi.CommitHash(draft)
	require.NoError(t, err)
	assert.Equal(t, head, got)
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	_, err := gi.CommitHash(dir)
	assert.Error(t, err)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
