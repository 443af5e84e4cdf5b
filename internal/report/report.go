// Package report joins extracted DOIs against a retraction index.
package report

import (
	"sort"

	"github.com/matsen/ash/internal/retraction"
)

// NoticeURLPrefix turns a notice DOI into a resolvable link.
const NoticeURLPrefix = "https://doi.org/"

// Index is a read-only view of retraction records keyed by DOI.
type Index interface {
	Contains(doi string) (bool, error)
	RecordsFor(doi string) ([]retraction.Record, error)
}

// Zombie is one retraction record for a cited DOI.
type Zombie struct {
	DOI    string `json:"zombie"`
	Nature string `json:"item"`
	Date   string `json:"date"`
	Notice string `json:"notice_doi"`
}

// Report is the retraction status of every DOI cited by a document.
type Report struct {
	DOIs    map[string]bool `json:"dois"`
	Zombies []Zombie        `json:"zombies"`
}

// Build checks each DOI against idx. Zombies are listed once per DOI,
// sorted by DOI, with one entry per retraction record in record order.
func Build(dois []string, idx Index) (*Report, error) {
	r := &Report{
		DOIs:    make(map[string]bool, len(dois)),
		Zombies: []Zombie{},
	}

	var zombies []string
	for _, id := range dois {
		if _, seen := r.DOIs[id]; seen {
			continue
		}
		retracted, err := idx.Contains(id)
		if err != nil {
			return nil, err
		}
		r.DOIs[id] = retracted
		if retracted {
			zombies = append(zombies, id)
		}
	}
	sort.Strings(zombies)

	for _, id := range zombies {
		records, err := idx.RecordsFor(id)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			r.Zombies = append(r.Zombies, Zombie{
				DOI:    id,
				Nature: rec.Nature(),
				Date:   rec.Date(),
				Notice: NoticeURLPrefix + rec.NoticeDOI(),
			})
		}
	}
	return r, nil
}

// Clean reports whether no cited DOI has been retracted.
func (r *Report) Clean() bool {
	return len(r.Zombies) == 0
}

// ZombieDOIs returns the distinct retracted DOIs in sorted order.
func (r *Report) ZombieDOIs() []string {
	var out []string
	for _, z := range r.Zombies {
		if len(out) == 0 || out[len(out)-1] != z.DOI {
			out = append(out, z.DOI)
		}
	}
	return out
}
