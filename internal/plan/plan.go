// Package plan reads phase plan files.
//
// A phase plan fixes the order of the phase sequence and, optionally, the
// shell command that carries out each phase. When given, it replaces the
// phase names and commands from configuration.
//
// CSV format:
//
//	phase,command,description
//	Generate,planner --emit candidates.yaml,Compute grasp candidates
//	Choose,,Operator picks a grasp
//	Approach,arm move --pregrasp,
//	Grasp,arm close,
//	Lift,arm move --lift 50,
//
// Only the phase column is required. Rows are in execution order.
package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Step is one row of the plan.
type Step struct {
	// Phase is the phase name shown on the panel.
	Phase string

	// Command is the shell command run when the phase executes. Empty means
	// the phase completes as soon as it is executed.
	Command string

	// Description is free text shown next to the phase.
	Description string
}

// Plan holds the parsed steps in execution order.
type Plan struct {
	Steps []Step
}

// ReadFromFile reads and parses a plan CSV file.
func ReadFromFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	return readFromReader(f)
}

// ReadFromString parses a plan from a CSV string.
func ReadFromString(data string) (*Plan, error) {
	return readFromReader(strings.NewReader(data))
}

func readFromReader(r io.Reader) (*Plan, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read plan header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	if _, ok := colIndex["phase"]; !ok {
		return nil, fmt.Errorf("plan missing required column: phase")
	}

	var steps []Step
	seen := make(map[string]int)
	lineNum := 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read plan line %d: %w", lineNum, err)
		}

		step := Step{
			Phase:       getField(record, colIndex, "phase"),
			Command:     getField(record, colIndex, "command"),
			Description: getField(record, colIndex, "description"),
		}
		if step.Phase == "" {
			return nil, fmt.Errorf("plan line %d: phase name is required", lineNum)
		}
		if first, dup := seen[step.Phase]; dup {
			return nil, fmt.Errorf("plan line %d: phase %q already declared on line %d", lineNum, step.Phase, first)
		}
		seen[step.Phase] = lineNum

		steps = append(steps, step)
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("plan contains no phases")
	}

	return &Plan{Steps: steps}, nil
}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Phases returns the phase names in plan order.
func (p *Plan) Phases() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Phase
	}
	return names
}

// Commands returns the non-empty commands keyed by phase name.
func (p *Plan) Commands() map[string]string {
	cmds := make(map[string]string)
	for _, s := range p.Steps {
		if s.Command != "" {
			cmds[s.Phase] = s.Command
		}
	}
	return cmds
}

// Step returns the step for the given phase, or nil if the plan has none.
func (p *Plan) Step(phase string) *Step {
	for i := range p.Steps {
		if p.Steps[i].Phase == phase {
			return &p.Steps[i]
		}
	}
	return nil
}
