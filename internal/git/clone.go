package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

var ErrInvalidURL = errors.New("invalid repository url")

// GitService fetches repositories into a local checkout directory so their
// sources can be diagrammed.
type GitService struct {
	basePath string

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per checkout path
}

func NewGitService(basePath string) *GitService {
	return &GitService{basePath: basePath, locks: make(map[string]*sync.Mutex)}
}

// Checkout is a local working copy of a fetched repository.
type Checkout struct {
	URL    string
	Path   string
	Commit string
}

// Source identifies the checkout as "<url>@<commit>".
func (c *Checkout) Source() string {
	if c.Commit == "" {
		return c.URL
	}
	return c.URL + "@" + c.Commit
}

// Fetch clones url into the base path, or fast-forwards an existing clone,
// and resolves the checked out commit. Fetches of the same url and branch
// are serialised.
func (s *GitService) Fetch(ctx context.Context, url, branch string) (*Checkout, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	repoPath, err := s.CheckoutPath(url, branch)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(repoPath)
	defer unlock()

	if err := s.cloneOrPull(ctx, url, branch, repoPath); err != nil {
		return nil, err
	}

	commit, err := s.GetCurrentCommit(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	return &Checkout{URL: url, Path: repoPath, Commit: commit}, nil
}

// Clone clones a repository to the base path
func (s *GitService) Clone(ctx context.Context, url, branch string) (string, error) {
	repoPath, err := s.CheckoutPath(url, branch)
	if err != nil {
		return "", err
	}
	unlock := s.lock(repoPath)
	defer unlock()

	if err := s.cloneOrPull(ctx, url, branch, repoPath); err != nil {
		return "", err
	}
	return repoPath, nil
}

// CheckoutPath is the directory a url and branch are cloned into:
// "<repo>-<digest>", where the digest covers the normalised url and the
// branch, so repositories sharing a name never share a checkout.
func (s *GitService) CheckoutPath(url, branch string) (string, error) {
	repoName := ExtractRepoName(url)
	if repoName == "" || repoName == "." || repoName == ".." {
		return "", fmt.Errorf("%w: cannot derive a name from %q", ErrInvalidURL, url)
	}
	normalized := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	sum := sha256.Sum256([]byte(normalized + "\x00" + branch))
	return filepath.Join(s.basePath, repoName+"-"+hex.EncodeToString(sum[:6])), nil
}

func (s *GitService) lock(path string) func() {
	s.mu.Lock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *GitService) cloneOrPull(ctx context.Context, url, branch, repoPath string) error {
	// Check if already cloned
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		log.Printf("Updating existing clone %s", repoPath)
		return s.Pull(ctx, repoPath)
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create repos directory: %w", err)
	}

	// Clone with depth 1 for faster clone
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, "--", url, repoPath)

	log.Printf("Cloning %s into %s", url, repoPath)
	if err := run(ctx, "", args...); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// Pull pulls latest changes
func (s *GitService) Pull(ctx context.Context, repoPath string) error {
	if err := run(ctx, repoPath, "pull", "--ff-only"); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}
	return nil
}

// GetCurrentCommit returns the current commit hash
func (s *GitService) GetCurrentCommit(ctx context.Context, repoPath string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = repoPath

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// run executes git and folds its combined output into the error.
func run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

// ValidateURL accepts http(s), ssh://, git:// and scp-style git@host:path
// URLs.
func ValidateURL(url string) error {
	switch {
	case url == "":
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	case strings.HasPrefix(url, "-"):
		return fmt.Errorf("%w: %q", ErrInvalidURL, url)
	case strings.HasPrefix(url, "https://"),
		strings.HasPrefix(url, "http://"),
		strings.HasPrefix(url, "ssh://"),
		strings.HasPrefix(url, "git://"):
		return nil
	case strings.HasPrefix(url, "git@") && strings.Contains(url, ":"):
		return nil
	}
	return fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidURL, url)
}

// ExtractRepoName extracts repository name from URL
func ExtractRepoName(url string) string {
	// Remove trailing slash and .git suffix
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")

	// Handle URLs with a scheme
	if i := strings.Index(url, "://"); i >= 0 {
		parts := strings.Split(url[i+3:], "/")
		return parts[len(parts)-1]
	}

	// Handle SSH URLs (git@github.com:owner/repo)
	if strings.Contains(url, ":") {
		parts := strings.SplitN(url, ":", 2)
		pathParts := strings.Split(parts[1], "/")
		return pathParts[len(pathParts)-1]
	}

	return url
}
