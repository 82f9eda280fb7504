// Package userconfig loads the engine's persistent, per-project defaults
// from a `.cpack.kdl` file, the way the teacher's internal/config loads
// `.lci.kdl` via github.com/sblinch/kdl-go: a small hand-walked AST
// traversal rather than struct-tag unmarshaling, since kdl-go exposes a
// generic document model, not a decoder.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// Config holds per-project defaults that the CLI commands combine with
// their flags: YAML and Folders are on when either the flag or the
// default is on, and compile's Recursive only when both are (watch has
// no recursive flag and uses the default alone). A flag set to false
// does not turn off a YAML or Folders default of true.
type Config struct {
	YAML      bool
	Folders   bool
	Recursive bool
	Exclude   []string
	LogFile   string
}

// defaults mirrors the library's own zero-configuration behavior.
func defaults() *Config {
	return &Config{
		YAML:      false,
		Folders:   false,
		Recursive: true,
	}
}

// Load reads `.cpack.kdl` from projectRoot. A missing file is not an
// error: Load returns the library defaults.
func Load(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, ".cpack.kdl")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("userconfig: reading %s: %w", path, err)
	}
	return parse(string(content))
}

func parse(content string) (*Config, error) {
	cfg := defaults()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("userconfig: parsing .cpack.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "pack":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "yaml":
					if b, ok := firstBoolArg(cn); ok {
						cfg.YAML = b
					}
				case "folders":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Folders = b
					}
				case "recursive":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Recursive = b
					}
				}
			}
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		case "log_file":
			if s, ok := firstStringArg(n); ok {
				cfg.LogFile = s
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
