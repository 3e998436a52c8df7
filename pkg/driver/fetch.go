package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitPrefix marks a program reference that lives in a git repository.
const GitPrefix = "git+"

// GitSource names a program file inside a git repository:
//
//	git+<url>#<path>[@<rev>]
//
// rev is a commit, tag, branch or any revision go-git can resolve and
// defaults to HEAD.
type GitSource struct {
	URL  string
	Path string
	Rev  string
}

// IsGitReference reports whether target uses the git+ form.
func IsGitReference(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), GitPrefix)
}

func ParseGitSource(target string) (GitSource, error) {
	target = strings.TrimSpace(target)
	if !IsGitReference(target) {
		return GitSource{}, fmt.Errorf("driver: %q is not a git reference", target)
	}
	url, fragment, ok := strings.Cut(strings.TrimPrefix(target, GitPrefix), "#")
	if !ok || strings.TrimSpace(url) == "" {
		return GitSource{}, fmt.Errorf("driver: %q: expected git+<url>#<path>", target)
	}
	src := GitSource{URL: strings.TrimSpace(url), Rev: "HEAD"}
	if idx := strings.LastIndex(fragment, "@"); idx >= 0 {
		if rev := strings.TrimSpace(fragment[idx+1:]); rev != "" {
			src.Rev = rev
		}
		fragment = fragment[:idx]
	}
	src.Path = filepath.ToSlash(filepath.Clean(strings.TrimSpace(fragment)))
	if src.Path == "." || src.Path == "" || strings.HasPrefix(src.Path, "../") || filepath.IsAbs(src.Path) {
		return GitSource{}, fmt.Errorf("driver: %q: program path must be relative to the repository", target)
	}
	return src, nil
}

// FetchProgram checks out src into cacheDir and loads the program file. A
// checkout of the same commit is reused.
func FetchProgram(cacheDir string, src GitSource) (*Program, string, error) {
	dir, commit, err := ensureCheckout(cacheDir, src)
	if err != nil {
		return nil, "", err
	}
	program, err := LoadProgram(filepath.Join(dir, filepath.FromSlash(src.Path)))
	if err != nil {
		return nil, "", err
	}
	return program, commit, nil
}

func ensureCheckout(cacheDir string, src GitSource) (string, string, error) {
	if strings.TrimSpace(cacheDir) == "" {
		return "", "", fmt.Errorf("driver: no cache directory for git programs")
	}
	baseDir := filepath.Join(cacheDir, "git", sanitizePathSegment(src.URL))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	if isCommitHash(src.Rev) {
		existing := filepath.Join(baseDir, src.Rev)
		if _, err := os.Stat(existing); err == nil {
			return existing, src.Rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: src.URL})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: git clone %s: %w", src.URL, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(src.Rev))
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: resolve revision %s: %w", src.Rev, err)
	}
	commit := hash.String()
	targetDir := filepath.Join(baseDir, commit)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("driver: git checkout %s: %w", src.Rev, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return targetDir, commit, nil
}

func isCommitHash(rev string) bool {
	if len(rev) != 40 {
		return false
	}
	for _, r := range rev {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}
