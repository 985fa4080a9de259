// Package config implements the layered configuration the rest of the
// server reads at startup: built-in defaults, merged with a user-global
// `~/.rholang-lsp.kdl`, merged with a project-local `.rholang-lsp.kdl`, with
// CLI flags taking final precedence. Values are plain structs — the KDL
// parsing lives in kdl.go, grounded on the teacher's hand-rolled KDL reader
// over github.com/sblinch/kdl-go (the pack carries no schema-driven KDL
// decoder, so a direct node walk is the idiom to imitate, not replace).
package config

import "time"

// Config is the fully merged, ready-to-use server configuration.
type Config struct {
	Project    Project
	Host       Host
	Embedded   Embedded
	Indexing   Indexing
	Completion Completion
}

// Project describes the workspace root and its discovery rules.
type Project struct {
	Root            string
	HostExtensions  []string // file extensions treated as Rholang host documents
	Exclude         []string // glob patterns (doublestar syntax) excluded from indexing/watching
	RespectGitignore bool
}

// Host configures host-language (Rholang) parsing behavior.
type Host struct {
	// Reserved for future host-specific knobs; kept as its own section so
	// KDL files can grow a `host { ... }` block without reshuffling Project.
}

// Embedded configures which virtual-document languages are recognized and
// how deeply their symbols are indexed.
type Embedded struct {
	// Languages lists directive tags (`#!<language>`) given a dedicated
	// adapter (only "metta" ships built in); any other tag falls back to
	// the generic flat-global path (internal/embedded).
	Languages []string
}

// Indexing configures the document pipeline and workspace indexer.
type Indexing struct {
	DebounceMs        int
	WatchMode         bool
	BatchSizeMin      int
	BatchSizeMax      int
	WorkerCount       int
	WorkerStackBytes  int
	SequentialFileMax int // not read by the indexer: indexing.ShouldParallelize uses a fixed 5-file threshold
}

// Completion configures the fuzzy-matching thresholds the ranking contract
// recommends.
type Completion struct {
	LocalEditDistance  int
	GlobalEditDistance int
}

// Debounce returns Indexing.DebounceMs as a time.Duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Indexing.DebounceMs) * time.Millisecond
}

// Default returns the built-in configuration, the base every layered merge
// starts from.
func Default() Config {
	return Config{
		Project: Project{
			Root:             ".",
			HostExtensions:   []string{".rho"},
			Exclude:          []string{"**/.git/**", "**/node_modules/**"},
			RespectGitignore: true,
		},
		Embedded: Embedded{
			Languages: []string{"metta"},
		},
		Indexing: Indexing{
			DebounceMs:        100,
			WatchMode:         true,
			BatchSizeMin:      10,
			BatchSizeMax:      50,
			WorkerCount:       4,
			WorkerStackBytes:  8 << 20,
			SequentialFileMax: 5,
		},
		Completion: Completion{
			LocalEditDistance:  2,
			GlobalEditDistance: 1,
		},
	}
}

// Merge overlays override's non-zero fields onto c, layer by layer
// (defaults -> global -> project); Project.Exclude is the exception, whose
// entries are appended to c's instead of replacing them. This matches the
// teacher's per-field assignment style rather than a generic deep-merge
// reflection pass.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Project.Root != "" {
		out.Project.Root = override.Project.Root
	}
	if len(override.Project.HostExtensions) > 0 {
		out.Project.HostExtensions = override.Project.HostExtensions
	}
	if len(override.Project.Exclude) > 0 {
		out.Project.Exclude = append(out.Project.Exclude, override.Project.Exclude...)
	}
	if len(override.Embedded.Languages) > 0 {
		out.Embedded.Languages = override.Embedded.Languages
	}
	if override.Indexing.DebounceMs != 0 {
		out.Indexing.DebounceMs = override.Indexing.DebounceMs
	}
	if override.Indexing.BatchSizeMin != 0 {
		out.Indexing.BatchSizeMin = override.Indexing.BatchSizeMin
	}
	if override.Indexing.BatchSizeMax != 0 {
		out.Indexing.BatchSizeMax = override.Indexing.BatchSizeMax
	}
	if override.Indexing.WorkerCount != 0 {
		out.Indexing.WorkerCount = override.Indexing.WorkerCount
	}
	if override.Indexing.WorkerStackBytes != 0 {
		out.Indexing.WorkerStackBytes = override.Indexing.WorkerStackBytes
	}
	if override.Indexing.SequentialFileMax != 0 {
		out.Indexing.SequentialFileMax = override.Indexing.SequentialFileMax
	}
	if override.Completion.LocalEditDistance != 0 {
		out.Completion.LocalEditDistance = override.Completion.LocalEditDistance
	}
	if override.Completion.GlobalEditDistance != 0 {
		out.Completion.GlobalEditDistance = override.Completion.GlobalEditDistance
	}
	return out
}
