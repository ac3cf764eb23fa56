package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotRepository = errors.New("not a git repository")

// Info describes the repository containing a path.
type Info struct {
	Root     string
	Branch   string
	HeadFile string
}

// Lookup walks up from path to the nearest .git and reads HEAD. Worktree
// .git files pointing elsewhere are followed.
func Lookup(path string) (Info, error) {
	gitDir, err := findGitDir(path)
	if err != nil {
		return Info{}, err
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Root:     filepath.Dir(gitDir),
		Branch:   branch,
		HeadFile: filepath.Join(gitDir, "HEAD"),
	}, nil
}

// Branch is Lookup's branch, or "" outside a repository.
func Branch(path string) string {
	info, err := Lookup(path)
	if err != nil {
		return ""
	}
	return info.Branch
}

func findGitDir(path string) (string, error) {
	start, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(start)
	if err != nil {
		// A file that does not exist yet still belongs to its directory's repo.
		start = filepath.Dir(start)
	} else if !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			if info.Mode().IsRegular() {
				return readGitFile(start, gitPath)
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			break
		}
		start = parent
	}
	return "", ErrNotRepository
}

func readGitFile(dir, gitPath string) (string, error) {
	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", ErrNotRepository
	}
	gitDir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}
	return gitDir, nil
}

func readHead(gitDir string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return strings.TrimPrefix(ref, "refs/heads/"), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
