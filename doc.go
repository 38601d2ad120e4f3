// Package memoria is the Composition Root for the memoria research memory.
//
// It connects the query engine and bootstrap aggregator (pkg/core) with the
// flat-file stores (pkg/adapters/fs) that a research workflow appends to:
// a devlog, a decision log, a TODO list and an experiment table.
//
// Features:
//
//   - **Keyword search**: term-count relevance over every line of the logs and every
//     experiment row, with date, phase and store filters.
//   - **Bootstrap**: rebuilds the current project state (overview, latest entries,
//     TODOs, work-plan suggestions) for resuming a session.
//   - **Session logging**: appends sessions, decisions, TODOs and experiments in the
//     formats the query engine reads back.
//   - **Read-only safe**: queries never write and never fail because one store is missing.
//
// Usage:
//
//	svc, err := memoria.New(".", memoria.WithLogger(logger))
//
//	res := svc.Search(ctx, "instrumental variable", core.Filters{Type: "devlog"})
package memoria
