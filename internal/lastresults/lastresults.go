// Package lastresults remembers the matches of the most recent search so
// follow-up commands can refer to them by number.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/sift/internal/atomicfile"
	"github.com/aidanlsb/sift/internal/model"
)

// LastResults stores the matches of the most recent search.
type LastResults struct {
	Query     string             `json:"query"`
	Timestamp time.Time          `json:"timestamp"`
	Results   []model.ResultItem `json:"results"`
}

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrInvalidNumber    = errors.New("invalid result number")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the path of the results file kept in dir.
func Path(dir string) string {
	return filepath.Join(dir, "last-results.json")
}

// New records items as the results of query.
func New(query string, items []model.ResultItem) *LastResults {
	if items == nil {
		items = []model.ResultItem{}
	}
	return &LastResults{Query: query, Timestamp: time.Now(), Results: items}
}

// Write saves lr to dir, replacing the previous results.
func Write(dir string, lr *LastResults) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}
	if err := atomicfile.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the results saved in dir.
func Read(dir string) (*LastResults, error) {
	data, err := os.ReadFile(Path(dir))
	if os.IsNotExist(err) {
		return nil, ErrNoLastResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}
	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// GetByNumbers returns the results with the given 1-indexed numbers.
func (lr *LastResults) GetByNumbers(nums []int) ([]model.ResultItem, error) {
	items := make([]model.ResultItem, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(lr.Results) {
			if len(lr.Results) == 0 {
				return nil, fmt.Errorf("%w: %d (last search %q had no matches)", ErrNumberOutOfRange, num, lr.Query)
			}
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.Results))
		}
		items = append(items, lr.Results[num-1])
	}
	return items, nil
}
