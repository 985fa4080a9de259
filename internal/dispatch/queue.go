package dispatch

import "github.com/standardbeagle/rholang-lsp/internal/workspace"

// RunOrDefer executes run immediately unless needsGlobal is true and the
// workspace is mid-rebuild, in which case it is queued to run once indexing
// finishes. Requests that only touch open-document state (needsGlobal
// false) always bypass the queue, even while a rebuild is in progress.
func RunOrDefer(index *workspace.GlobalIndex, method string, needsGlobal bool, run func()) {
	if !needsGlobal {
		run()
		return
	}
	if !index.Enqueue(workspace.PendingRequest{Method: method, Run: run}) {
		run()
	}
}
