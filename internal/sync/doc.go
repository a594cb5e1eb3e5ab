// Package sync copies per-project bookmark files from the local repository
// to the shared repository, rewriting each bookmarked path relative to the
// project's directory.
//
// # Pipeline
//
// For every configured project, in order, the Engine:
//   - creates (or truncates) <shared>/<name>
//   - opens <local>/<name>, skipping the project if it cannot be opened
//   - discards the local header line and writes the bookmark.FormatVersion header
//   - rewrites and copies every record line
//
// A project that is skipped because its local file is missing leaves an
// empty shared file behind.
//
// # Failure isolation
//
// Run never returns an error. A project whose shared file cannot be created
// or written is reported as StateFailed; a line with fewer than two fields is
// logged with its line number, recorded in ProjectResult.Malformed and
// skipped. Neither stops the remaining lines or projects.
//
//	engine := sync.New(sync.DefaultOptions())
//	result := engine.Run(ctx, model)
//	fmt.Print(result.Summary())
package sync
