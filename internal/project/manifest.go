// Package project loads the blend65.toml manifest: package identity,
// target tuning, and per-project analysis overrides.
package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"blend65/internal/analysis"
	"blend65/internal/opt"
)

// Manifest mirrors blend65.toml.
type Manifest struct {
	Package  Package  `toml:"package"`
	Target   Target   `toml:"target"`
	Analysis Analysis `toml:"analysis"`

	// Path is the file the manifest was loaded from; empty for the
	// stock manifest.
	Path string `toml:"-"`
}

// Package identifies the project.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Target tunes placement for the machine the program runs on.
type Target struct {
	// ZeroPageBudget caps the zero-page bytes the planner may hand
	// out; 0 means the full page.
	ZeroPageBudget int `toml:"zero_page_budget"`
	// ZeroPageReserved is claimed by the runtime before planning.
	ZeroPageReserved int `toml:"zero_page_reserved"`
}

// Analysis overrides analyzer behavior per project. The weight tables
// merge over the stock tuning key by key, so a manifest only lists the
// weights it changes.
type Analysis struct {
	MaxDiagnostics int                 `toml:"max_diagnostics"`
	ZeroPage       opt.ZeroPageWeights `toml:"zero_page"`
	Inline         opt.InlineWeights   `toml:"inline"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// OptionError reports a manifest option that is unknown or out of
// range. Callers map it onto their own diagnostic code.
type OptionError struct {
	Key    string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s: %s", e.Key, e.Reason)
}

// Default returns the stock manifest: no package identity, full zero
// page, stock weights.
func Default() *Manifest {
	weights := opt.DefaultWeights()
	return &Manifest{
		Analysis: Analysis{
			ZeroPage: weights.ZeroPage,
			Inline:   weights.Inline,
		},
	}
}

// Load reads and validates one manifest file.
func Load(path string) (*Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m.Path = path
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if strings.TrimSpace(m.Package.Name) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if err := m.validate(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadOrDefault loads the nearest manifest above startDir, falling
// back to the stock manifest when none exists.
func LoadOrDefault(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (m *Manifest) validate(meta toml.MetaData) error {
	if keys := meta.Undecoded(); len(keys) > 0 {
		return &OptionError{Key: keys[0].String(), Reason: "unknown option"}
	}
	if !IsValidPackageName(m.Package.Name) {
		return &OptionError{Key: "package.name", Reason: fmt.Sprintf("%q is not a valid package name", m.Package.Name)}
	}
	if m.Target.ZeroPageBudget < 0 || m.Target.ZeroPageBudget > opt.ZeroPageCapacity {
		return &OptionError{Key: "target.zero_page_budget", Reason: fmt.Sprintf("must be between 0 and %d", opt.ZeroPageCapacity)}
	}
	if m.Target.ZeroPageReserved < 0 || m.Target.ZeroPageReserved > opt.ZeroPageCapacity {
		return &OptionError{Key: "target.zero_page_reserved", Reason: fmt.Sprintf("must be between 0 and %d", opt.ZeroPageCapacity)}
	}
	if m.Analysis.MaxDiagnostics < 0 {
		return &OptionError{Key: "analysis.max_diagnostics", Reason: "must not be negative"}
	}
	return nil
}

// AnalysisOptions folds the manifest into orchestrator options.
func (m *Manifest) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Weights: opt.Weights{
			ZeroPage: m.Analysis.ZeroPage,
			Inline:   m.Analysis.Inline,
		},
		ZeroPageBudget:   m.Target.ZeroPageBudget,
		ZeroPageReserved: m.Target.ZeroPageReserved,
		MaxDiagnostics:   m.Analysis.MaxDiagnostics,
	}
}

// IsValidPackageName accepts ASCII identifiers with dashes after the
// first character, e.g. "starfield" or "sprite-tools".
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
