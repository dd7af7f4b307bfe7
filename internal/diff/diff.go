// Package diff parses git diffs into the per-file change sets that scanning
// operates on.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ChangedFile is one file in a diff together with its added content.
type ChangedFile struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	AddedLines   int
	DeletedLines int

	added strings.Builder
}

// Name returns the path to report for the file.
func (f *ChangedFile) Name() string {
	if f.IsRenamed {
		return fmt.Sprintf("%s -> %s", f.OldName, f.NewName)
	}
	if f.IsDeleted {
		return f.OldName
	}
	if f.NewName != "" {
		return f.NewName
	}
	return f.OldName
}

// AddedContent returns the concatenated added lines of the file. This is
// what detection runs on when scanning a diff: context and deleted lines
// carry no signal about the new code.
func (f *ChangedFile) AddedContent() string {
	return f.added.String()
}

// ChangeSet holds every changed file of one diff.
type ChangeSet struct {
	Files []*ChangedFile
	Raw   string
}

// Stats returns aggregate counts across the change set.
func (cs *ChangeSet) Stats() (files, added, deleted int) {
	files = len(cs.Files)
	for _, f := range cs.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// Parse reads a unified diff and returns its change set.
func Parse(raw string) (*ChangeSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	cs := &ChangeSet{Raw: raw}
	for _, f := range parsed {
		cf := &ChangedFile{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					cf.AddedLines++
					cf.added.WriteString(line.Line)
				case gitdiff.OpDelete:
					cf.DeletedLines++
				}
			}
		}

		cs.Files = append(cs.Files, cf)
	}

	return cs, nil
}

// GitDiff runs `git diff` with the given arguments and returns the raw
// output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// GitDiffHead returns the diff of HEAD against its parent.
func GitDiffHead(repoDir string) (string, error) {
	return GitDiff(repoDir, "HEAD~1", "HEAD")
}

// GitDiffRange returns the diff for a commit range like "main...HEAD".
func GitDiffRange(repoDir, commitRange string) (string, error) {
	return GitDiff(repoDir, commitRange)
}
