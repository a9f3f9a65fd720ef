package printer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SpoolPrinter drops rendered receipts into a spool directory that the
// receipt printer daemon watches. Fire and forget: nobody reads back whether
// paper actually came out.
type SpoolPrinter struct {
	Dir string
}

func NewSpoolPrinter(dir string) *SpoolPrinter {
	return &SpoolPrinter{Dir: dir}
}

func (p *SpoolPrinter) Print(receipt []byte) error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("create spool directory: %w", err)
	}

	name := fmt.Sprintf("receipt_%d.txt", time.Now().UnixNano())
	path := filepath.Join(p.Dir, name)
	if err := os.WriteFile(path, receipt, 0644); err != nil {
		return fmt.Errorf("spool receipt: %w", err)
	}
	return nil
}
