package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"

	"github.com/m-manu/recursive-input/conf"
	"github.com/m-manu/recursive-input/entity"
	"github.com/m-manu/recursive-input/fmte"
	"github.com/m-manu/recursive-input/service"
)

// writeSplitsCsv writes one "location,length" row per split
func writeSplitsCsv(splits []entity.FileSplit, out io.Writer) error {
	w := csv.NewWriter(out)
	_ = w.Write([]string{"location", "length"})
	for _, split := range splits {
		_ = w.Write([]string{split.Location, strconv.FormatInt(split.Length, 10)})
	}
	w.Flush()
	return w.Error()
}

// writeRecordsCsv writes one "key,length,location" row per record produced, in split order
func writeRecordsCsv(splits []entity.FileSplit, records []*entity.Record, out io.Writer) error {
	w := csv.NewWriter(out)
	_ = w.Write([]string{"key", "length", "location"})
	for i, rec := range records {
		if rec == nil {
			continue
		}
		_ = w.Write([]string{rec.Key, strconv.Itoa(len(rec.Value)), splits[i].Location})
	}
	w.Flush()
	return w.Error()
}

func getParallelism(requested int, numSplits int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > numSplits {
		n = numSplits
	}
	if n < 1 {
		n = 1
	}
	return n
}

// readSplits reads every split on parallelism goroutines, each owning a contiguous range of
// splits. records[i] is nil when split i produced no record.
func readSplits(planner *service.InputPlanner, job *conf.JobConf, splits []entity.FileSplit,
	parallelism int, printer *fmte.Printer,
) ([]*entity.Record, []error) {
	records := make([]*entity.Record, len(splits))
	var errs []error
	var errsMx sync.Mutex
	workers := getParallelism(parallelism, len(splits))
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(index int) {
			defer wg.Done()
			low := index * len(splits) / workers
			high := (index + 1) * len(splits) / workers
			for j := low; j < high; j++ {
				rec, err := readSplit(planner, job, splits[j])
				if err != nil {
					errsMx.Lock()
					errs = append(errs, err)
					errsMx.Unlock()
					continue
				}
				if rec != nil {
					printer.PrintfV("Read %v\n", rec)
				}
				records[j] = rec
			}
		}(i)
	}
	wg.Wait()
	return records, errs
}

func readSplit(planner *service.InputPlanner, job *conf.JobConf, split entity.FileSplit) (*entity.Record, error) {
	reader, err := planner.CreateRecordReader(split, job)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	ok, err := reader.NextKeyValue()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &entity.Record{Key: reader.CurrentKey(), Value: reader.CurrentValue()}, nil
}

// recursiveInput reads every split of job and writes a row per record to out.
// All read failures are reported together after the rows of the successful ones.
func recursiveInput(planner *service.InputPlanner, job *conf.JobConf, splits []entity.FileSplit,
	parallelism int, printer *fmte.Printer, out io.Writer,
) error {
	records, errs := readSplits(planner, job, splits, parallelism, printer)
	if err := writeRecordsCsv(splits, records, out); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmte.Errors(fmt.Sprintf("couldn't read %d of %d files", len(errs), len(splits)), errs)
	}
	return nil
}
