package providers

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
)

// CSVProvider reads area codes from a local file with rows of
// npa,set[,location]. A header row and lines starting with # are skipped.
type CSVProvider struct {
	name     string
	path     string
	complete bool
}

// NewCSVProvider creates a file source. complete marks the file as listing
// every member of each set it mentions.
func NewCSVProvider(name, path string, complete bool) *CSVProvider {
	if name == "" {
		name = "csv"
	}
	return &CSVProvider{name: name, path: path, complete: complete}
}

func (p *CSVProvider) Name() string { return p.name }

func (p *CSVProvider) Fetch(ctx context.Context) ([]crosscheck.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(p.path)
	if err != nil {
		return nil, errors.ErrReportUnavailable.WithCause(err).WithDetails(map[string]interface{}{
			"path": p.path,
		})
	}
	defer f.Close()
	return ParseCSVReports(f, p.name, p.complete)
}

// ParseCSVReports groups rows by set and returns one report per set, in the
// order the sets first appear.
func ParseCSVReports(r io.Reader, source string, complete bool) ([]crosscheck.Report, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		order   []areacode.Set
		grouped = map[areacode.Set][]crosscheck.Entry{}
		line    int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ErrReportMalformed.WithCause(err)
		}
		line++

		if len(record) < 2 {
			return nil, malformedRow(line, "expected npa,set[,location]")
		}

		npaText := strings.TrimSpace(record[0])
		npa, err := strconv.Atoi(npaText)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, malformedRow(line, "npa is not a number")
		}

		set, err := areacode.ParseSet(record[1])
		if err != nil {
			return nil, malformedRow(line, err.Error())
		}

		entry := crosscheck.Entry{Code: npa}
		if len(record) > 2 {
			if location := strings.TrimSpace(record[2]); location != "" {
				entry.Metadata = map[string]string{"location": location}
			}
		}

		if _, seen := grouped[set]; !seen {
			order = append(order, set)
		}
		grouped[set] = append(grouped[set], entry)
	}

	reports := make([]crosscheck.Report, 0, len(order))
	for _, set := range order {
		reports = append(reports, crosscheck.Report{
			Source:   source,
			Set:      set,
			Complete: complete,
			Entries:  grouped[set],
		})
	}
	return reports, nil
}

func malformedRow(line int, reason string) error {
	return errors.ErrReportMalformed.WithDetails(map[string]interface{}{
		"line":   line,
		"reason": reason,
	})
}
