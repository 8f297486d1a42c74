/*
 Copyright (C) 2025 Douglas Wayne Potter

 This program is free software: you can redistribute it and/or modify
 it under the terms of the GNU Affero General Public License as
 published by the Free Software Foundation, either version 3 of the
 License, or (at your option) any later version.

 This program is distributed in the hope that it will be useful,
 but WITHOUT ANY WARRANTY; without even the implied warranty of
 MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 GNU Affero General Public License for more details.

 You should have received a copy of the GNU Affero General Public License
 along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package dualio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// dataFileName is the single file written inside each output subdirectory.
// The table format (CSV locally, AVRO/ORC for a real distributed run) is
// the codec's concern, not this package's; spec.md §6 fixes only the
// row schema, not a file-naming convention.
const dataFileName = "data"

// SaveResults writes the four artifacts spec.md §4.6 describes under
// outputDir: log/log.txt, dual/, violation/ and, if hasPrimal, primal/. All
// artifacts are first written to a sibling "<outputDir>.tmp" directory, so a
// failed write leaves any existing outputDir untouched. Only then is the
// existing outputDir removed and the staging directory renamed into place;
// these are two separate steps, so the replacement itself is not atomic.
func SaveResults(
	outputDir string,
	dual *sparsevec.Vector,
	slack *sparsevec.Vector,
	primal table.Rows,
	hasPrimal bool,
	log *optstate.IterationLog,
	terminal string,
	codec table.Codec,
) error {
	tmpDir := outputDir + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return fmt.Errorf("dualio: clearing staging directory %q: %w", tmpDir, err)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("dualio: creating staging directory %q: %w", tmpDir, err)
	}

	if err := writeLog(tmpDir, log, terminal); err != nil {
		return err
	}
	if err := writeTable(tmpDir, "dual", vectorToRows(dual), codec); err != nil {
		return err
	}
	if err := writeTable(tmpDir, "violation", vectorToRows(slack), codec); err != nil {
		return err
	}
	if hasPrimal {
		if err := writeTable(tmpDir, "primal", primal, codec); err != nil {
			return err
		}
	} else {
		slog.Warn("dualio: no primal certificate to save")
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("dualio: removing previous output directory %q: %w", outputDir, err)
	}
	if err := os.Rename(tmpDir, outputDir); err != nil {
		return fmt.Errorf("dualio: replacing output directory %q: %w", outputDir, err)
	}
	return nil
}

func vectorToRows(v *sparsevec.Vector) table.Rows {
	rows := make(table.Rows, len(v.Index))
	for k, i := range v.Index {
		rows[k] = table.Row{Index: int32(i), Value: v.Values[k]}
	}
	return rows
}

func writeTable(parentDir, name string, rows table.Rows, codec table.Codec) (err error) {
	dir := filepath.Join(parentDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dualio: creating %s directory: %w", name, err)
	}

	f, err := os.Create(filepath.Join(dir, dataFileName))
	if err != nil {
		return fmt.Errorf("dualio: creating %s data file: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := codec.Write(f, rows); err != nil {
		return fmt.Errorf("dualio: writing %s table: %w", name, err)
	}
	return nil
}

func writeLog(parentDir string, log *optstate.IterationLog, terminal string) (err error) {
	dir := filepath.Join(parentDir, "log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dualio: creating log directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "log.txt"))
	if err != nil {
		return fmt.Errorf("dualio: creating log.txt: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if log != nil {
		for _, entry := range log.Entries() {
			if entry.Message != "" {
				if _, werr := fmt.Fprintf(f, "[%d] %s\n", entry.Iteration, entry.Message); werr != nil {
					return fmt.Errorf("dualio: writing log.txt: %w", werr)
				}
				continue
			}
			if _, werr := fmt.Fprintf(f, "[%d] dualValue=%g maxSlack=%g duration=%s\n",
				entry.Iteration, entry.DualValue, entry.MaxSlack, entry.Duration); werr != nil {
				return fmt.Errorf("dualio: writing log.txt: %w", werr)
			}
		}
	}
	if _, err := fmt.Fprintln(f, terminal); err != nil {
		return fmt.Errorf("dualio: writing log.txt terminal line: %w", err)
	}
	return nil
}
