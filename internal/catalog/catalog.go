// Package catalog holds the named frequency tables and turns them into
// render jobs with deterministic output paths.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RenatoCabral2022/spirit/internal/batch"
	"github.com/RenatoCabral2022/spirit/internal/render"
)

//go:embed frequencies.json
var embedded []byte

// ErrUnknownCategory is returned by Resolve for a command not in the catalog.
var ErrUnknownCategory = errors.New("unknown category")

// Entry is one named frequency.
type Entry struct {
	Hz          float64 `json:"hz"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Category is an ordered table of entries and how to name its files.
type Category struct {
	ID          string  `json:"id"`
	Command     string  `json:"command"`
	Dir         string  `json:"dir"`
	Display     string  `json:"display"`
	Prefix      string  `json:"prefix"`
	Hint        string  `json:"hint,omitempty"`
	Frequencies []Entry `json:"frequencies"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	categories []Category
	byCommand  map[string]int
}

// Load decodes and validates a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc struct {
		Categories []Category `json:"categories"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{byCommand: make(map[string]int, len(doc.Categories))}
	for i, cat := range doc.Categories {
		if cat.ID == "" || cat.Command == "" {
			return nil, fmt.Errorf("category %d: id and command are required", i)
		}
		if _, dup := c.byCommand[cat.Command]; dup {
			return nil, fmt.Errorf("category %s: duplicate command %q", cat.ID, cat.Command)
		}
		if _, err := render.ParseHint(cat.Hint); err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.ID, err)
		}
		if cat.Dir == "" {
			cat.Dir = cat.ID
		}
		if cat.Prefix == "" {
			cat.Prefix = cat.ID
		}
		c.byCommand[cat.Command] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic("embedded catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category looks up a category by its command name.
func (c *Catalog) Category(command string) (Category, bool) {
	i, ok := c.byCommand[command]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Resolve returns the specs for a category command in catalog order.
// Placeholder entries with a zero frequency are listed by the catalog but
// have nothing to render, so they are left out.
func (c *Catalog) Resolve(command string) ([]render.FrequencySpec, error) {
	cat, ok := c.Category(command)
	if !ok {
		return nil, &render.Error{Kind: render.KindConfiguration, Op: "resolve",
			Err: fmt.Errorf("%w %q", ErrUnknownCategory, command)}
	}
	return cat.specs(), nil
}

func (cat Category) specs() []render.FrequencySpec {
	hint, _ := render.ParseHint(cat.Hint)
	out := make([]render.FrequencySpec, 0, len(cat.Frequencies))
	for _, e := range cat.Frequencies {
		if e.Hz == 0 {
			continue
		}
		out = append(out, render.FrequencySpec{
			TargetHz:    e.Hz,
			Label:       e.Name,
			Category:    cat.ID,
			Description: e.Description,
			Hint:        hint,
		})
	}
	return out
}

// JobOptions are the settings shared by every job of a batch.
type JobOptions struct {
	OutputDir string
	Seconds   int
	Mode      render.Mode
	Stereo    bool
}

// Jobs builds the render jobs for a category command.
func (c *Catalog) Jobs(command string, opts JobOptions) ([]batch.Job, error) {
	cat, ok := c.Category(command)
	if !ok {
		_, err := c.Resolve(command)
		return nil, err
	}
	return cat.jobs(opts), nil
}

// AllJobs builds the jobs for every category in catalog order.
func (c *Catalog) AllJobs(opts JobOptions) []batch.Job {
	var jobs []batch.Job
	for _, cat := range c.categories {
		jobs = append(jobs, cat.jobs(opts)...)
	}
	return jobs
}

func (cat Category) jobs(opts JobOptions) []batch.Job {
	specs := cat.specs()
	jobs := make([]batch.Job, len(specs))
	for i, spec := range specs {
		jobs[i] = batch.Job{
			Spec:    spec,
			Mode:    opts.Mode,
			Seconds: opts.Seconds,
			Stereo:  opts.Stereo,
			Path:    filepath.Join(opts.OutputDir, Sanitize(cat.Dir), FileName(cat.Prefix, spec.Label, spec.TargetHz)),
		}
	}
	return jobs
}

// FileName returns "<prefix>_<label>_<hz>hz.wav" with hz at two decimals.
func FileName(prefix, label string, hz float64) string {
	return fmt.Sprintf("%s_%s_%shz.wav", Sanitize(prefix), Sanitize(label), formatHz(hz, 2))
}

func formatHz(hz float64, decimals int) string {
	if math.IsNaN(hz) || math.IsInf(hz, 0) {
		return "nan"
	}
	return fmt.Sprintf("%.*f", decimals, hz)
}

// Sanitize makes s safe as a single path element: lowercase, whitespace to
// hyphens, anything outside [a-z0-9._-] dropped and dot runs collapsed.
// Dot-only results become "_".
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte('-')
		}
	}
	out := b.String()
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	if strings.Trim(out, ".") == "" {
		return "_"
	}
	return out
}
