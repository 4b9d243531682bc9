// Package schedulefile loads schedules, team profiles and candidates from
// files on disk for the CLI.
package schedulefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/excel"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
)

// File is the document shape shared by YAML and JSON inputs. Each section
// is optional; a schedule file usually carries only events.
type File struct {
	Team       model.Team        `json:"team" yaml:"team"`
	Events     []model.Event     `json:"events" yaml:"events"`
	Candidates []model.Candidate `json:"candidates" yaml:"candidates"`
}

// Load reads path, choosing the decoder by extension. Workbooks yield events
// only.
func Load(path string) (*File, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		events, err := excel.ReadEventsFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return &File{Events: events}, nil
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		f, err := Decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Decode parses data in the format named by ext (".yaml", ".yml" or ".json").
func Decode(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if f.Events == nil {
		f.Events = []model.Event{}
	}
	return &f, nil
}

// FilterCandidates keeps candidates whose name (or id, when unnamed)
// fuzzy-matches query, closest matches first. An empty query keeps all.
func FilterCandidates(candidates []model.Candidate, query string) []model.Candidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return candidates
	}
	targets := make([]string, len(candidates))
	for i, c := range candidates {
		targets[i] = c.Name
		if strings.TrimSpace(c.Name) == "" {
			targets[i] = c.ID
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	out := make([]model.Candidate, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, candidates[r.OriginalIndex])
	}
	return out
}
