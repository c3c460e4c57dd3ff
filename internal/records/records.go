// Package records loads the student batch from its CSV source.
package records

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Student is one row of the source table. Name is the lookup key used to
// search the listing; the three code fields are raw text in whatever
// formatting the operator exported.
type Student struct {
	Name string
	CPF  string
	INEP string
	NIS  string
}

// Header column names recognized in the source file.
const (
	colName = "NomeDoAluno"
	colCPF  = "CPF"
	colINEP = "INEP"
	colNIS  = "NIS"
)

// Load reads and parses the CSV at path. An unreadable file, a missing
// header or a header without the name column is an error; the batch never
// starts on a broken source.
func Load(path string) ([]Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse record source %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("record source %s is empty", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	nameIdx, ok := idx[colName]
	if !ok {
		return nil, fmt.Errorf("record source %s: header lacks %s column", path, colName)
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	students := make([]Student, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		name := ""
		if nameIdx < len(row) {
			name = strings.TrimSpace(row[nameIdx])
		}
		if name == "" {
			return nil, fmt.Errorf("record source %s: row %d has no %s", path, n+2, colName)
		}
		students = append(students, Student{
			Name: name,
			CPF:  field(row, colCPF),
			INEP: field(row, colINEP),
			NIS:  field(row, colNIS),
		})
	}
	return students, nil
}
