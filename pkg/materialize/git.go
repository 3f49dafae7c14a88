package materialize

import (
	"context"
	"os"

	"github.com/arthur-debert/dots/pkg/logging"
	"github.com/go-git/go-git/v5"
)

// GitFetcher clones with depth 1 and pulls existing clones. No retries.
type GitFetcher struct{}

// NewGitFetcher creates a git fetcher
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{}
}

// Fetch clones url into dir, or pulls when dir already holds a clone
func (g *GitFetcher) Fetch(ctx context.Context, url, dir string) error {
	logger := logging.GetLogger(logging.Materialize)

	repo, err := git.PlainOpen(dir)
	if err == git.ErrRepositoryNotExists {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:          url,
			Depth:        1,
			SingleBranch: true,
		})
		if err != nil {
			_ = os.RemoveAll(dir)
			return err
		}
		logger.Debug().Str("url", url).Msg("Cloned")
		return nil
	}
	if err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin", SingleBranch: true})
	if err == git.NoErrAlreadyUpToDate {
		logger.Debug().Str("url", url).Msg("Already up to date")
		return nil
	}
	return err
}
