// Package tabular handles CSV ingestion and serialization: the typed
// parent-child table for the validation path, the raw cell grid for the tree
// path, and the corrected-table and findings-report outputs. Unreadable files
// and missing required columns are fatal typed errors, not findings.
package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/venalab/hiervet/pkg/errors"
	"github.com/venalab/hiervet/pkg/hierarchy"
)

// Canonical column headers of the parent-child format.
const (
	ColDim    = "_dim"
	ColMember = "_member_name"
	ColAlias  = "_member_alias"
	ColParent = "_parent_name"
	ColOp     = "_operator"
	ColCmd    = "_cmd"
)

// LoadTable reads a parent-child CSV file into a table. The member and parent
// columns are required; the rest default to empty. Row sources are 0-based
// data row indexes, so display numbering lines up with the spreadsheet.
func LoadTable(path string) (hierarchy.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return hierarchy.Table{}, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	table, err := ReadTable(f, path)
	if err != nil {
		return hierarchy.Table{}, err
	}
	return table, nil
}

// ReadTable parses a parent-child CSV from a reader. The name argument is
// used in error messages only.
func ReadTable(r io.Reader, name string) (hierarchy.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return hierarchy.Table{}, errors.WrapParse("csv", name, err)
	}
	if len(records) == 0 {
		return hierarchy.Table{}, errors.ErrEmptyTable
	}

	index := make(map[string]int, len(records[0]))
	for i, header := range records[0] {
		index[strings.TrimSpace(header)] = i
	}
	memberCol, ok := index[ColMember]
	if !ok {
		return hierarchy.Table{}, errors.NewColumnError(ColMember, name)
	}
	parentCol, ok := index[ColParent]
	if !ok {
		return hierarchy.Table{}, errors.NewColumnError(ColParent, name)
	}

	cell := func(record []string, col int, ok bool) string {
		if !ok || col >= len(record) {
			return ""
		}
		return record[col]
	}
	dimCol, hasDim := index[ColDim]
	aliasCol, hasAlias := index[ColAlias]
	opCol, hasOp := index[ColOp]
	cmdCol, hasCmd := index[ColCmd]

	table := hierarchy.Table{Rows: make([]hierarchy.Row, 0, len(records)-1)}
	for i, record := range records[1:] {
		member := cell(record, memberCol, true)
		if strings.TrimSpace(member) == "" {
			continue
		}
		table.Rows = append(table.Rows, hierarchy.Row{
			Dim:      cell(record, dimCol, hasDim),
			Member:   member,
			Alias:    cell(record, aliasCol, hasAlias),
			Parent:   cell(record, parentCol, true),
			Operator: cell(record, opCol, hasOp),
			Cmd:      cell(record, cmdCol, hasCmd),
			Source:   i,
		})
	}
	if len(table.Rows) == 0 {
		return hierarchy.Table{}, errors.ErrEmptyTable
	}
	return table, nil
}

// LoadGrid reads a CSV file as a raw cell grid with no header handling; the
// tree parser interprets the cells itself.
func LoadGrid(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tree layouts have ragged rows
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	return grid, nil
}

// WriteTable serializes a table in the canonical parent-child format.
func WriteTable(w io.Writer, table hierarchy.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{ColDim, ColMember, ColAlias, ColParent, ColOp, ColCmd}); err != nil {
		return errors.WrapIO("write", "", err)
	}
	for _, row := range table.Rows {
		record := []string{row.Dim, row.Member, row.Alias, row.Parent, row.Operator, row.Cmd}
		if err := writer.Write(record); err != nil {
			return errors.WrapIO("write", "", err)
		}
	}
	writer.Flush()
	return errors.WrapIO("write", "", writer.Error())
}

// SaveTable writes a table to a file in the canonical parent-child format.
func SaveTable(path string, table hierarchy.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()
	return WriteTable(f, table)
}

// WriteFindings serializes numbered findings as the issues report CSV.
func WriteFindings(w io.Writer, findings []hierarchy.Finding) error {
	writer := csv.NewWriter(w)
	header := []string{"Issue", "Type", "Category", "Member Name", "Parent Name", "Cause", "Rows"}
	if err := writer.Write(header); err != nil {
		return errors.WrapIO("write", "", err)
	}
	for _, f := range findings {
		record := []string{
			f.ID,
			string(f.Severity),
			string(f.Category),
			f.Member,
			f.Parent,
			f.Cause,
			f.DisplayRows(),
		}
		if err := writer.Write(record); err != nil {
			return errors.WrapIO("write", "", err)
		}
	}
	writer.Flush()
	return errors.WrapIO("write", "", writer.Error())
}
