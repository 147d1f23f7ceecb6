package domain

type ColumnKind string

const (
	ColumnNumeric     ColumnKind = "numeric"
	ColumnCategorical ColumnKind = "categorical"
)

// Column holds one feature's observed values. Exactly one of Numeric or
// Categories is populated, according to Kind.
type Column struct {
	Name       string
	Kind       ColumnKind
	Numeric    []float64
	Categories []string
}

// Dataset is an in-memory columnar view of either the reference
// distribution or a daily observation window.
type Dataset struct {
	Ref     string
	Rows    int
	Columns []Column
}

// Column returns the named column or nil.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}
