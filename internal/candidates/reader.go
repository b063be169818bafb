// Package candidates reads grasp candidates produced by the grasp planner.
//
// The planner writes a YAML file listing candidate grasps and whether each is
// currently reachable:
//
//	candidates:
//	  - name: top-pinch
//	    reachable: true
//	  - name: side-wrap
//	    reachable: false
//
// [Reader] resolves and parses the file; [Apply] loads the result into a
// grasp.Registry with upsert semantics. [Watcher] re-reads the file when the
// planner rewrites it.
package candidates

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"graspctl/internal/grasp"
)

// DefaultPath is the candidate file looked up in the working directory.
const DefaultPath = "candidates.yaml"

// EnvPath names the candidate file when no explicit path is given.
const EnvPath = "GRASPCTL_CANDIDATES_PATH"

// Candidate is one grasp as written by the planner. A candidate without a
// reachable field is reachable, the same as on the robot feed.
type Candidate struct {
	Name      string `yaml:"name"`
	Reachable bool   `yaml:"reachable"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Candidate) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name      string `yaml:"name"`
		Reachable *bool  `yaml:"reachable"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.Reachable = raw.Reachable == nil || *raw.Reachable
	return nil
}

// File is the parsed candidate file.
type File struct {
	// Replace clears the registry before applying, for planners that emit a
	// complete new candidate set each time.
	Replace bool `yaml:"replace,omitempty"`

	Candidates []Candidate `yaml:"candidates"`
}

// ResolvePath discovers the candidate file location.
//
// Resolution order:
//  1. Explicit path parameter (if non-empty)
//  2. GRASPCTL_CANDIDATES_PATH environment variable
//  3. candidates.yaml under basePath
func ResolvePath(basePath, path string) string {
	if path != "" {
		return path
	}
	if envPath := os.Getenv(EnvPath); envPath != "" {
		return envPath
	}
	return filepath.Join(basePath, DefaultPath)
}

// Reader reads candidate files.
//
// Use [NewReader] for auto-discovery or [NewReaderWithPath] for an explicit path.
type Reader struct {
	path string
}

// NewReader creates a [Reader] that looks for candidates.yaml under basePath.
func NewReader(basePath string) *Reader {
	return &Reader{path: ResolvePath(basePath, "")}
}

// NewReaderWithPath creates a [Reader] for the given file. An empty path
// falls back to GRASPCTL_CANDIDATES_PATH, then candidates.yaml under basePath.
func NewReaderWithPath(basePath, path string) *Reader {
	return &Reader{path: ResolvePath(basePath, path)}
}

// Path returns the resolved file path.
func (r *Reader) Path() string {
	return r.path
}

// Read reads and parses the candidate file.
func (r *Reader) Read() (*File, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return Parse(data)
}

// Parse parses candidate YAML. Every candidate must have a name.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse candidates: %w", err)
	}
	for i, c := range f.Candidates {
		if c.Name == "" {
			return nil, fmt.Errorf("failed to parse candidates: candidate %d has no name", i+1)
		}
	}
	return &f, nil
}

// Apply loads the candidates into reg in file order. Existing grasps keep
// their position and have their reachability updated; new ones are appended.
// When f.Replace is set, the registry is cleared first.
func Apply(reg *grasp.Registry, f *File) error {
	if f.Replace {
		reg.Clear()
	}
	for _, c := range f.Candidates {
		if err := reg.AddOrUpdate(c.Name, c.Reachable); err != nil {
			return err
		}
	}
	return nil
}
