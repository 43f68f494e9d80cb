package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/0kPN1/zkpnl/internal/zkerr"
)

// WriteSNPReportCSV writes reports to a CSV file named
// "snapshot_from_<first>_to_<last>.csv" under dir, one row per report.
// An empty reports slice is a no-op (original_source/src/db.rs's
// write_snp_report prints a message and returns rather than writing a
// header-only file).
func WriteSNPReportCSV(dir string, reports []SNPReport) (string, error) {
	if len(reports) == 0 {
		return "", nil
	}
	path := fmt.Sprintf("%s/snapshot_from_%s_to_%s.csv", dir, reports[0].Time, reports[len(reports)-1].Time)

	f, err := os.Create(path)
	if err != nil {
		return "", zkerr.WrapIO(err, "create snapshot export %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"hash", "time", "capital", "pnl", "log_return"}); err != nil {
		return "", zkerr.WrapIO(err, "write snapshot export header")
	}
	for _, r := range reports {
		row := []string{
			r.Hash,
			r.Time,
			strconv.FormatFloat(r.Capital, 'f', -1, 64),
			strconv.FormatFloat(r.PnL, 'f', -1, 64),
			strconv.FormatFloat(r.LogReturn, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", zkerr.WrapIO(err, "write snapshot export row for %s", r.Hash)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", zkerr.WrapIO(err, "flush snapshot export %s", path)
	}
	return path, nil
}
