package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/storer"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/nickyhof/DuckCLI/db"
)

// ErrNoChanges is returned by Save when the exported tables are
// identical to the previous snapshot.
var ErrNoChanges = errors.New("no changes since last snapshot")

// Identity names the author of a snapshot commit.
type Identity struct {
	Name  string
	Email string
}

// Snapshot describes one committed export.
type Snapshot struct {
	Id      string
	When    time.Time
	Message string
	Tables  []string
}

// Store is a git repository holding table exports.
type Store struct {
	repo *git.Repository
	fs   billy.Filesystem
}

// NewMemoryStore creates a store backed by in-memory storage.
func NewMemoryStore() (*Store, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}

	return &Store{repo: repo, fs: wt}, nil
}

// NewFileStore creates or opens a store rooted at baseDir.
func NewFileStore(baseDir string) (*Store, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository

	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		// Directory doesn't exist, initialize new repo
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		// Directory exists, open existing repo
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, err
	}

	return &Store{repo: repo, fs: wt}, nil
}

// Save exports every table to <table>.csv in the worktree and commits
// the result.
func (s *Store) Save(ctx context.Context, client *db.Client, identity Identity, message string) (Snapshot, error) {
	tables, err := client.ShowTables(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list tables: %w", err)
	}

	// Exports go through a temp dir since DuckDB's COPY only writes to
	// OS paths, while the worktree may be in memory.
	tmpDir, err := os.MkdirTemp("", "duckcli-snapshot-*")
	if err != nil {
		return Snapshot{}, err
	}
	defer os.RemoveAll(tmpDir)

	var names []string
	for _, row := range tables.Data {
		table := row[0]
		local := filepath.Join(tmpDir, table+".csv")

		if _, err := client.ExportTableCSV(ctx, table, local); err != nil {
			return Snapshot{}, fmt.Errorf("failed to export table %s: %w", table, err)
		}

		if err := s.writeFile(table+".csv", local); err != nil {
			return Snapshot{}, fmt.Errorf("failed to stage table %s: %w", table, err)
		}

		names = append(names, table)
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return Snapshot{}, err
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return Snapshot{}, fmt.Errorf("failed to stage snapshot: %w", err)
	}

	when := time.Now()
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  identity.Name,
			Email: identity.Email,
			When:  when,
		},
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return Snapshot{}, ErrNoChanges
		}
		return Snapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return Snapshot{
		Id:      hash.String(),
		When:    when,
		Message: message,
		Tables:  names,
	}, nil
}

// writeFile copies a local file into the worktree filesystem.
func (s *Store) writeFile(name, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}

	file, err := s.fs.Create(name)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// History returns up to limit snapshots, newest first. A non-positive
// limit returns all of them.
func (s *Store) History(limit int) ([]Snapshot, error) {
	if _, err := s.repo.Head(); err != nil {
		// No commits yet
		return nil, nil
	}

	iter, err := s.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var snapshots []Snapshot
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(snapshots) >= limit {
			return storer.ErrStop
		}
		snapshots = append(snapshots, Snapshot{
			Id:      c.Hash.String(),
			When:    c.Committer.When,
			Message: c.Message,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshots, nil
}
