package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rsc.io/pdf"
)

type fileList []string

var _ flag.Value = &fileList{}

func (f *fileList) String() string {
	return fmt.Sprintf("%v", *f)
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

// Horizontal gap between glyphs, relative to the font size, read as a space.
// rsc.io/pdf does not report space glyphs.
const wordGap = 0.2

// readPDFPages returns the text of every non-blank page of the PDF at path.
// Glyphs on the same baseline are joined; a change of baseline starts a new
// line.
func readPDFPages(path string) (pages []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	file, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}

	// rsc.io/pdf panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("reading PDF %s: %v", path, r)
		}
	}()

	for i := 1; i <= file.NumPage(); i++ {
		page := file.Page(i)
		if page.V.IsNull() {
			continue
		}

		var b strings.Builder
		var prev pdf.Text
		for j, t := range page.Content().Text {
			if j > 0 {
				switch {
				case t.Y != prev.Y:
					b.WriteString("\n")
				case t.X-(prev.X+prev.W) > wordGap*t.FontSize:
					b.WriteString(" ")
				}
			}
			b.WriteString(t.S)
			prev = t
		}

		if text := strings.TrimSpace(b.String()); text != "" {
			pages = append(pages, text)
		}
	}

	return pages, nil
}
