package services

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// CountPDFPages opens a rendered PDF and reports its page total. Used to
// verify and record how long a generated material came out.
func CountPDFPages(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
