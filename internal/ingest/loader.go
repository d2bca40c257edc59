package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/fitline/internal/model"
)

// Export file names inside a data directory.
const (
	FitnessFile  = "fitness_daily.csv"
	SportFile    = "sport_record.csv"
	CalendarFile = "calendar.csv"
)

// LoadDir reads the exports of one data directory concurrently.
// Missing files yield no records. Every *.ics file in dir is read too.
// Calendar times without an offset are read in loc.
func LoadDir(ctx context.Context, dir string, loc *time.Location) (model.Inputs, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return model.Inputs{}, fmt.Errorf("failed to open data dir: %w", err)
	}
	if !info.IsDir() {
		return model.Inputs{}, fmt.Errorf("%s is not a directory", dir)
	}
	icsFiles, err := filepath.Glob(filepath.Join(dir, "*.ics"))
	if err != nil {
		return model.Inputs{}, err
	}
	sort.Strings(icsFiles)

	var (
		in       model.Inputs
		calendar []model.CalendarRecord
		fromICS  = make([][]model.CalendarRecord, len(icsFiles))
	)
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		recs, err := loadFile(ctx, filepath.Join(dir, FitnessFile), ParseFitness)
		in.Metrics = recs
		return err
	})
	grp.Go(func() error {
		recs, err := loadFile(ctx, filepath.Join(dir, SportFile), ParseSport)
		in.Activities = recs
		return err
	})
	grp.Go(func() error {
		recs, err := loadFile(ctx, filepath.Join(dir, CalendarFile), calendarParser(loc))
		calendar = recs
		return err
	})
	for i, path := range icsFiles {
		grp.Go(func() error {
			recs, err := loadFile(ctx, path, icsParser(loc))
			fromICS[i] = recs
			return err
		})
	}
	if err := grp.Wait(); err != nil {
		return model.Inputs{}, err
	}

	in.Calendar = calendar
	for _, recs := range fromICS {
		in.Calendar = append(in.Calendar, recs...)
	}
	log.Debug().
		Str("dir", dir).
		Int("metrics", len(in.Metrics)).
		Int("activities", len(in.Activities)).
		Int("events", len(in.Calendar)).
		Msg("loaded")
	return in, nil
}

// LoadPath reads a data directory or a single export file.
func LoadPath(ctx context.Context, path string, loc *time.Location) (model.Inputs, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Inputs{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path, loc)
	}
	var in model.Inputs
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ".ics"):
		in.Calendar, err = loadFile(ctx, path, icsParser(loc))
	case base == FitnessFile:
		in.Metrics, err = loadFile(ctx, path, ParseFitness)
	case base == SportFile:
		in.Activities, err = loadFile(ctx, path, ParseSport)
	case base == CalendarFile:
		in.Calendar, err = loadFile(ctx, path, calendarParser(loc))
	default:
		return model.Inputs{}, fmt.Errorf("unsupported input file %s", path)
	}
	if err != nil {
		return model.Inputs{}, err
	}
	return in, nil
}

func calendarParser(loc *time.Location) func(io.Reader, string) ([]model.CalendarRecord, error) {
	return func(r io.Reader, name string) ([]model.CalendarRecord, error) {
		return ParseCalendarCSV(r, name, loc)
	}
}

func icsParser(loc *time.Location) func(io.Reader, string) ([]model.CalendarRecord, error) {
	return func(r io.Reader, name string) ([]model.CalendarRecord, error) {
		return ParseICS(r, name, loc)
	}
}

func loadFile[T any](ctx context.Context, path string, parse func(io.Reader, string) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", path).Msg("missing, skipped")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	recs, err := parse(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("records", len(recs)).Msg("read")
	return recs, nil
}
