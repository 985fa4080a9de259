package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadFile reads and parses one KDL config file. Returns a zero Config and
// no error when the file doesn't exist — a missing file is "no overrides",
// not a failure; callers merge the result onto Default() regardless.
func LoadFile(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parseKDL(string(content))
}

// LoadLayered builds the fully merged config for one workspace root:
// defaults, then `~/.rholang-lsp.kdl` if present, then
// `<root>/.rholang-lsp.kdl` if present.
func LoadLayered(projectRoot string) (Config, error) {
	cfg := Default()
	cfg.Project.Root = projectRoot

	if home, err := os.UserHomeDir(); err == nil {
		global, err := LoadFile(filepath.Join(home, ".rholang-lsp.kdl"))
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(global)
	}

	project, err := LoadFile(filepath.Join(projectRoot, ".rholang-lsp.kdl"))
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(project)

	return cfg, nil
}

func parseKDL(content string) (Config, error) {
	var cfg Config
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return Config{}, fmt.Errorf("parse kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "root":
					if s, ok := firstStringArg(cn); ok {
						cfg.Project.Root = s
					}
				case "host_extensions":
					cfg.Project.HostExtensions = collectStringArgs(cn)
				case "exclude":
					cfg.Project.Exclude = collectStringArgs(cn)
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Project.RespectGitignore = b
					}
				}
			}
		case "embedded":
			for _, cn := range n.Children {
				if nodeName(cn) == "languages" {
					cfg.Embedded.Languages = collectStringArgs(cn)
				}
			}
		case "indexing":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.DebounceMs = v
					}
				case "watch_mode":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Indexing.WatchMode = b
					}
				case "batch_size_min":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.BatchSizeMin = v
					}
				case "batch_size_max":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.BatchSizeMax = v
					}
				case "worker_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.WorkerCount = v
					}
				case "worker_stack_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.WorkerStackBytes = v
					}
				case "sequential_file_max":
					if v, ok := firstIntArg(cn); ok {
						cfg.Indexing.SequentialFileMax = v
					}
				}
			}
		case "completion":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "local_edit_distance":
					if v, ok := firstIntArg(cn); ok {
						cfg.Completion.LocalEditDistance = v
					}
				case "global_edit_distance":
					if v, ok := firstIntArg(cn); ok {
						cfg.Completion.GlobalEditDistance = v
					}
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads either inline arguments (`exclude "a" "b"`) or
// block-form children (`exclude { "a" "b" }`), matching both KDL styles the
// teacher's own config accepts.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
