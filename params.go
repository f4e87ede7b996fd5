// File: lixenwraith/cosima/params.go
package cosima

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Param is one presented key/value pair, e.g. {"Crab.Flux", "0.05"}.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of parameters.
type Params []Param

// Map returns the parameters keyed by Key. Later duplicates win.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, param := range p {
		m[param.Key] = param.Value
	}
	return m
}

// Rows returns the parameters as two-cell rows.
func (p Params) Rows() [][]string {
	rows := make([][]string, len(p))
	for i, param := range p {
		rows[i] = []string{param.Key, param.Value}
	}
	return rows
}

// Grid renders the parameters as a bordered table with a Key/Value header.
func (p Params) Grid() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers("Key", "Value").
		Rows(p.Rows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	return t.Render()
}

// WritePlain writes the parameters as two left-aligned columns without a
// header. Each row ends in a newline and carries no trailing padding.
func (p Params) WritePlain(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, param := range p {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", param.Key, param.Value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// String returns the plain two-column rendering.
func (p Params) String() string {
	var sb strings.Builder
	_ = p.WritePlain(&sb)
	return sb.String()
}

// ParsePlain reads rows written by WritePlain. The first token of each row is
// the key and the remaining tokens, joined by single spaces, are the value.
// Blank rows are skipped.
func ParsePlain(r io.Reader) (Params, error) {
	var params Params
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) == 1 {
			return nil, &KeywordError{Identifier: tokens[0], Line: lineNo, Err: ErrEmptyValue}
		}
		params = append(params, Param{Key: tokens[0], Value: strings.Join(tokens[1:], " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parameter table: %w", err)
	}
	return params, nil
}
