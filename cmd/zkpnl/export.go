package main

import (
	"fmt"
	"path/filepath"

	"github.com/0kPN1/zkpnl/internal/report"
)

// timeExportLayout matches the original's "%F-%H%M%S" CSV filename
// timestamps (original_source/src/db.rs::write_snp_report).
const timeExportLayout = "2006-01-02-150405"

// cmdExportSnapshot implements "export snapshot": project every album
// entry into an SNPReport row and write them as a CSV next to the album
// file. Grounded on original_source/src/cmd.rs::export_snapshot and
// original_source/src/db.rs::write_snp_report.
func (a *App) cmdExportSnapshot() error {
	album, err := a.store.ReadSnapshots()
	if err != nil {
		return err
	}
	if len(album) == 0 {
		fmt.Println("no snapshot to export")
		return nil
	}

	reports := make([]report.SNPReport, 0, len(album))
	for _, snap := range album {
		reports = append(reports, report.NewSNPReport(snap, timeExportLayout))
	}

	fmt.Println("exporting snapshot")
	dir := filepath.Dir(a.cfg.AlbumPath)
	path, err := report.WriteSNPReportCSV(dir, reports)
	if err != nil {
		return err
	}
	fmt.Printf("completed: %s\n", path)
	return nil
}
