// CLAUDE:SUMMARY CLI subcommand that normalizes the address column of a CSV file in chunks and journals the run.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/hazyhaar/addrnorm/pkg/api"
	"github.com/hazyhaar/addrnorm/pkg/journal"
	"github.com/hazyhaar/addrnorm/pkg/kit"
)

var outColumns = []string{
	"addr:housenumber", "addr:street", "addr:unit", "addr:city", "addr:state", "addr:postcode",
	"@removed", "error",
}

const chunkSize = 1000

func cmdNormalize(args []string) {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config file")
	in := fs.String("in", "-", "input CSV (- for stdin)")
	out := fs.String("out", "-", "output CSV (- for stdout)")
	column := fs.String("column", "address", "name of the address column")
	workers := fs.Int("workers", 0, "concurrent addresses (0 = config or one per CPU)")
	journalPath := fs.String("journal", "", "SQLite journal to record the run in")
	fs.Parse(args)

	cfg, logger := bootstrap(*cfgPath)
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *journalPath != "" {
		cfg.Journal = *journalPath
	}

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}
	svc := api.NewService(p, cfg.API, nil, logger)

	r := io.Reader(os.Stdin)
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			logger.Error("open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}
	w := io.Writer(os.Stdout)
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = kit.WithTransport(ctx, "cli")

	j := openJournal(cfg.Journal, logger)
	var runID string
	if j != nil {
		defer j.Close()
		if runID, err = j.Start("csv:"+*in, 0); err != nil {
			logger.Warn("journal start failed", "error", err)
		}
	}

	st, err := normalizeCSV(ctx, svc, r, w, *column, chunkSize)
	if runID != "" {
		if jerr := j.Finish(runID, st, err); jerr != nil {
			logger.Warn("journal finish failed", "run", runID, "error", jerr)
		}
	}
	if err != nil {
		logger.Error("normalize", "error", err)
		os.Exit(1)
	}
	logger.Info("normalize done", "items", st.Items, "unparseable", st.Unparseable, "ambiguous", st.Ambiguous, "run", runID)
}

// normalizeCSV copies r to w, appending the normalized fields to each row.
// Rows are processed chunk at a time; the @id of a row is its line number.
func normalizeCSV(ctx context.Context, svc *api.Service, r io.Reader, w io.Writer, column string, chunk int) (journal.Stats, error) {
	var total journal.Stats

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return total, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return total, fmt.Errorf("column %q not found in header %v", column, header)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(header, outColumns...)); err != nil {
		return total, fmt.Errorf("write header: %w", err)
	}

	line := 1
	rows := make([][]string, 0, chunk)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		items := make([]api.AddressInput, len(rows))
		for i, row := range rows {
			if col < len(row) {
				items[i].Address = row[col]
			}
			items[i].ID = api.ID(strconv.Itoa(line - len(rows) + i + 1))
		}
		recs, st, err := svc.Records(ctx, items)
		if err != nil {
			return err
		}
		total.Items += st.Items
		total.Unparseable += st.Unparseable
		total.Ambiguous += st.Ambiguous
		for i, rec := range recs {
			if err := cw.Write(append(pad(rows[i], len(header)), csvFields(rec)...)); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		rows = rows[:0]
		cw.Flush()
		return cw.Error()
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++
		rows = append(rows, row)
		if len(rows) == chunk {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func csvFields(rec any) []string {
	switch r := rec.(type) {
	case api.AddressReturn:
		return []string{r.HouseNumber, r.Street, r.Unit, r.City, r.State, r.PostCode, strings.Join(r.Removed, ";"), ""}
	case api.ErrorReturn:
		return []string{"", "", "", "", "", "", "", r.Error}
	}
	return make([]string, len(outColumns))
}
