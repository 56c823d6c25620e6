package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Batch is a list of product pages to process in one run.
type Batch struct {
	Settings   BatchSettings            `json:"settings" yaml:"settings"`
	Materials  map[string]BatchMaterial `json:"materials" yaml:"materials"`
	Products   []BatchProduct           `json:"products" yaml:"products"`
	Categories map[string]BatchCategory `json:"categories" yaml:"categories"`
}

type BatchSettings struct {
	// BatchDelayMS overrides REQUEST_DELAY when positive.
	BatchDelayMS  int  `json:"batchDelay" yaml:"batchDelay"`
	DefaultInsert bool `json:"defaultInsert" yaml:"defaultInsert"`
}

// BatchMaterial is one material bought from several suppliers; every
// supplier page is linked to the same catalog entry.
type BatchMaterial struct {
	Name           string          `json:"name" yaml:"name"`
	Specifications MaterialSpecs   `json:"specifications" yaml:"specifications"`
	Suppliers      []BatchSupplier `json:"suppliers" yaml:"suppliers"`
}

type MaterialSpecs struct {
	MaterialType string `json:"material_type" yaml:"material_type"`
	Thickness    string `json:"thickness" yaml:"thickness"`
}

type BatchSupplier struct {
	URL          string `json:"url" yaml:"url"`
	ExpectedType string `json:"expectedType" yaml:"expectedType"`
}

type BatchProduct struct {
	URL          string `json:"url" yaml:"url"`
	ExpectedType string `json:"expectedType" yaml:"expectedType"`
	Insert       *bool  `json:"insert" yaml:"insert"`
	Priority     string `json:"priority" yaml:"priority"`
	Notes        string `json:"notes" yaml:"notes"`
}

type BatchCategory struct {
	DefaultType string   `json:"defaultType" yaml:"defaultType"`
	AutoInsert  bool     `json:"autoInsert" yaml:"autoInsert"`
	URLs        []string `json:"urls" yaml:"urls"`
}

// LoadBatch reads a batch file; .yaml and .yml are YAML, anything else JSON.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var b Batch
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &b)
	default:
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	return &b, nil
}

// ShouldInsert resolves a product's insert flag: an explicit false always
// wins, otherwise the product or the batch default may enable it.
func (b *Batch) ShouldInsert(p BatchProduct) bool {
	if p.Insert != nil {
		return *p.Insert
	}
	return b.Settings.DefaultInsert
}

// Delay returns the batch's own delay, or fallback when unset.
func (b *Batch) Delay(fallback time.Duration) time.Duration {
	if b.Settings.BatchDelayMS > 0 {
		return time.Duration(b.Settings.BatchDelayMS) * time.Millisecond
	}
	return fallback
}

// MaterialKeys returns the material keys in a stable order.
func (b *Batch) MaterialKeys() []string {
	return sortedKeys(b.Materials)
}

func (b *Batch) CategoryNames() []string {
	return sortedKeys(b.Categories)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
