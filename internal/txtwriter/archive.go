package txtwriter

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/in1888-converter/internal/types"
)

// Meta is the summary stored next to the reports in a download bundle.
type Meta struct {
	RunID     string `json:"run_id,omitempty"`
	SheetName string `json:"sheet_name"`
	Ignored   int    `json:"ignored"`
	Count0110 int    `json:"count_0110"`
	Count0120 int    `json:"count_0120"`
}

// MetaFor summarizes report.
func MetaFor(runID string, report *types.Report) Meta {
	return Meta{
		RunID:     runID,
		SheetName: report.SheetName,
		Ignored:   report.Ignored,
		Count0110: len(report.Purchases),
		Count0120: len(report.Sales),
	}
}

// ArchiveNames names the entries of a bundle.
type ArchiveNames struct {
	Purchase string
	Sale     string
	Meta     string
}

// WriteArchive writes a ZIP holding both reports and an indented JSON Meta.
// The reports go through the same ASCII encoding as WriteFile.
func WriteArchive(w io.Writer, names ArchiveNames, meta Meta, report *types.Report) error {
	zw := zip.NewWriter(w)
	modified := time.Now()

	entries := []struct {
		name  string
		lines []types.ReportLine
	}{
		{names.Purchase, report.Purchases},
		{names.Sale, report.Sales},
	}
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", e.name, err)
		}
		if err := Encode(fw, types.Strings(e.lines)); err != nil {
			var encErr *EncodingError
			if errors.As(err, &encErr) {
				encErr.Path = e.name
			}
			return err
		}
	}

	fw, err := zw.CreateHeader(&zip.FileHeader{Name: names.Meta, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", names.Meta, err)
	}
	enc := json.NewEncoder(fw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("failed to encode %s: %w", names.Meta, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}
