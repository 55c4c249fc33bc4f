package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/testforge/internal/model"
)

const (
	indexFileName   = "_index.yaml"
	reportExtension = ".yaml"
	reportHashLen   = 16
)

var errReportsDirRequired = errors.New("reports directory path is required")

// ReportStore persists and retrieves session reports.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.Report) error
	LoadReports(path m.Path) ([]m.Report, error)
	RegenerateIndex(path m.Path) error
	CheckUpdates(path m.Path, units []m.SourceUnit) ([]m.SourceUnit, error)
}

// LocalReportStore keeps one YAML file per source unit plus an index.
type LocalReportStore struct{}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore() ReportStore {
	return &LocalReportStore{}
}

type indexEntry struct {
	Total     int           `yaml:"total"`
	Succeeded int           `yaml:"succeeded"`
	Exhausted int           `yaml:"exhausted"`
	Aborted   int           `yaml:"aborted"`
	Result    []resultEntry `yaml:"result"`
}

type resultEntry struct {
	Source   m.Path          `yaml:"source"`
	Artifact m.Path          `yaml:"artifact"`
	Status   m.SessionStatus `yaml:"status"`
	Reason   m.Reason        `yaml:"reason,omitempty"`
	Attempts int             `yaml:"attempts"`
	Report   string          `yaml:"report"`
}

// SaveReports writes every report to <dir>/<hash>.yaml, replacing any earlier
// report for the same source.
func (rs *LocalReportStore) SaveReports(path m.Path, reports []m.Report) error {
	if path == "" {
		return errReportsDirRequired
	}

	if err := os.MkdirAll(string(path), 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	for _, report := range reports {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report for %s: %w", report.Source, err)
		}

		name := rs.computeReportHash(report.Source) + reportExtension
		if err := os.WriteFile(filepath.Join(string(path), name), data, 0o600); err != nil {
			return fmt.Errorf("write report for %s: %w", report.Source, err)
		}
	}

	return nil
}

// LoadReports reads every report in path, ordered by source path. A missing
// directory yields no reports.
func (rs *LocalReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	if path == "" {
		return nil, errReportsDirRequired
	}

	names, err := reportFiles(path)
	if err != nil {
		return nil, err
	}

	reports := make([]m.Report, 0, len(names))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(string(path), name))
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", name, err)
		}

		var report m.Report
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("parse report %s: %w", name, err)
		}

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Source < reports[j].Source })

	return reports, nil
}

// RegenerateIndex rebuilds _index.yaml from the reports currently in path.
func (rs *LocalReportStore) RegenerateIndex(path m.Path) error {
	reports, err := rs.LoadReports(path)
	if err != nil {
		return err
	}

	idx := indexEntry{Total: len(reports), Result: make([]resultEntry, 0, len(reports))}

	for _, report := range reports {
		switch report.Status {
		case m.StatusSuccess:
			idx.Succeeded++
		case m.StatusExhausted:
			idx.Exhausted++
		case m.StatusAborted:
			idx.Aborted++
		}

		idx.Result = append(idx.Result, resultEntry{
			Source:   report.Source,
			Artifact: report.ArtifactPath,
			Status:   report.Status,
			Reason:   report.Reason,
			Attempts: report.Attempts,
			Report:   rs.computeReportHash(report.Source) + reportExtension,
		})
	}

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err := os.MkdirAll(string(path), 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	return os.WriteFile(filepath.Join(string(path), indexFileName), data, 0o600)
}

// CheckUpdates returns the units that still need a session: those with no
// stored report, a non-success report, or a report for different source
// content.
func (rs *LocalReportStore) CheckUpdates(path m.Path, units []m.SourceUnit) ([]m.SourceUnit, error) {
	if path == "" {
		return nil, errReportsDirRequired
	}

	info, err := os.Stat(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return units, nil
	}

	if err != nil {
		return nil, fmt.Errorf("stat reports directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: path is not a directory", path)
	}

	reports, err := rs.LoadReports(path)
	if err != nil {
		return nil, err
	}

	done := make(map[m.Path]string, len(reports))

	for _, report := range reports {
		if report.Status == m.StatusSuccess {
			done[report.Source] = report.SourceHash
		}
	}

	var changed []m.SourceUnit

	for _, unit := range units {
		hash, ok := done[unit.Path]
		if ok && hash != "" && hash == unit.Hash {
			continue
		}

		changed = append(changed, unit)
	}

	return changed, nil
}

func (rs *LocalReportStore) computeReportHash(source m.Path) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:reportHashLen]
}

func reportFiles(path m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == indexFileName || !strings.HasSuffix(name, reportExtension) {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}
