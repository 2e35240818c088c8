package pdf

import (
	"bytes"
	"errors"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MergeSource is one candidate section of the combined bundle, in merge
// order. Data may be nil when the section was never produced or uploaded.
type MergeSource struct {
	Name string
	Data []byte
}

// ErrNothingToMerge is returned when every candidate source is missing or
// fails validation.
var ErrNothingToMerge = errors.New("no valid PDF sources to merge")

// Merge concatenates the valid sources into one PDF, in the given order.
// Missing or corrupt sources are skipped rather than failing the bundle;
// their names are returned so the caller can log them.
func Merge(sources []MergeSource) ([]byte, []string, error) {
	conf := model.NewDefaultConfiguration()

	var readers []io.ReadSeeker
	var skipped []string
	for _, src := range sources {
		if len(src.Data) == 0 {
			skipped = append(skipped, src.Name)
			continue
		}
		rs := bytes.NewReader(src.Data)
		if err := api.Validate(rs, conf); err != nil {
			skipped = append(skipped, src.Name)
			continue
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			skipped = append(skipped, src.Name)
			continue
		}
		readers = append(readers, rs)
	}

	if len(readers) == 0 {
		return nil, skipped, ErrNothingToMerge
	}

	var out bytes.Buffer
	if len(readers) == 1 {
		// MergeRaw requires at least two inputs; a single survivor passes
		// through unchanged.
		data, err := io.ReadAll(readers[0])
		if err != nil {
			return nil, skipped, err
		}
		return data, skipped, nil
	}

	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, skipped, err
	}
	return out.Bytes(), skipped, nil
}

// PageCount reports the number of pages in a PDF, or an error when the data
// is not a readable PDF.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
