// Package retraction loads the Retraction Watch dataset and indexes it by
// the DOI of the retracted paper.
package retraction

// Column names in the Retraction Watch CSV export.
const (
	ColumnOriginalDOI = "OriginalPaperDOI"
	ColumnNature      = "RetractionNature"
	ColumnDate        = "RetractionDate"
	ColumnNoticeDOI   = "RetractionDOI"
)

// Record is one row of the source dataset, keyed by column header.
type Record map[string]string

// OriginalDOI returns the raw DOI of the retracted paper.
func (r Record) OriginalDOI() string { return r[ColumnOriginalDOI] }

// Nature returns the kind of notice, e.g. "Retraction" or
// "Expression of concern".
func (r Record) Nature() string { return r[ColumnNature] }

// Date returns the retraction date as written in the source.
func (r Record) Date() string { return r[ColumnDate] }

// NoticeDOI returns the DOI of the retraction notice itself.
func (r Record) NoticeDOI() string { return r[ColumnNoticeDOI] }
