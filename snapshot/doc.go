// Package snapshot provides git-versioned exports of database contents.
//
// A Store wraps a git repository whose worktree holds one CSV file per
// table. Each Save exports every table through the database client and
// records the result as a commit, giving point-in-time history of the
// data without any storage format of its own.
//
//	store, _ := snapshot.NewFileStore("./snapshots")
//	store.Save(ctx, client, snapshot.Identity{Name: "App", Email: "app@example.com"}, "nightly")
//
// Stores come in two flavors: memory (for tests and throwaway use) and
// file-backed.
package snapshot
