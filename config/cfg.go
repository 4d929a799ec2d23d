package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	AnalysisConfig struct {
		TreeName  string `yaml:"tree_name" validate:"required"`
		MaxEvents int64  `yaml:"max_events" validate:"gte=0"`
	}

	JetsConfig struct {
		Algorithm  Algorithm  `yaml:"algorithm" validate:"gte=0"`
		Radius     float64    `yaml:"radius" validate:"gt=0,lte=2"`
		PtMin      float64    `yaml:"pt_min" validate:"gte=0"`
		Collection Collection `yaml:"collection" validate:"gte=0"`
	}

	// CutsConfig describes kinematic selection applied when a run asks for
	// cuts. Zero value of any *_max field disables that particular cut.
	CutsConfig struct {
		JetPtMin          float64 `yaml:"jet_pt_min" validate:"gte=0"`
		JetEtaMax         float64 `yaml:"jet_eta_max" validate:"gte=0"`
		PartonPtMin       float64 `yaml:"parton_pt_min" validate:"gte=0"`
		PartonEtaMax      float64 `yaml:"parton_eta_max" validate:"gte=0"`
		RequireAllMatched bool    `yaml:"require_all_matched"`
	}

	MatchingConfig struct {
		MaxDeltaR float64 `yaml:"max_delta_r" validate:"gt=0"`
	}

	PlotsConfig struct {
		Width  float64 `yaml:"width" validate:"gt=0"`
		Height float64 `yaml:"height" validate:"gt=0"`
	}

	JobConfig struct {
		Name       string     `yaml:"name" validate:"required"`
		Input      string     `yaml:"input" sanitize:"path_clean" validate:"required"`
		Histos     string     `yaml:"histos" validate:"required"`
		Info       string     `yaml:"info" validate:"required"`
		Plots      string     `yaml:"plots,omitempty"`
		Collection Collection `yaml:"collection" validate:"gte=0"`
		Cuts       bool       `yaml:"cuts"`
	}

	BatchConfig struct {
		Parallel int         `yaml:"parallel" validate:"min=1"`
		Jobs     []JobConfig `yaml:"jobs" validate:"dive"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Analysis  AnalysisConfig `yaml:"analysis"`
		Jets      JetsConfig     `yaml:"jets"`
		Cuts      CutsConfig     `yaml:"cuts"`
		Matching  MatchingConfig `yaml:"matching"`
		Plots     PlotsConfig    `yaml:"plots"`
		Batch     BatchConfig    `yaml:"batch"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above, these are expanded per job
	// at run time and not when configuration is loaded
	HistosTemplateFieldName TemplateFieldName = "histos"
	InfoTemplateFieldName   TemplateFieldName = "info"
	PlotsTemplateFieldName  TemplateFieldName = "plots"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(HistosTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(InfoTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(PlotsTemplateFieldName)),
)

// checkJobs makes sure batch jobs could be told apart and never write into
// the same files.
func checkJobs(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	names := make(map[string]struct{}, len(cfg.Batch.Jobs))
	outputs := make(map[string]string, 2*len(cfg.Batch.Jobs))
	for i, job := range cfg.Batch.Jobs {
		if _, exists := names[job.Name]; exists {
			sl.ReportError(cfg.Batch.Jobs[i].Name, fmt.Sprintf("Batch.Jobs[%d].Name", i), "Name", "unique", job.Name)
		}
		names[job.Name] = struct{}{}

		// expanded names are checked again before run
		for _, out := range []string{job.Histos, job.Info} {
			if strings.Contains(out, "{{") {
				continue
			}
			if other, exists := outputs[out]; exists && other != job.Name {
				sl.ReportError(out, fmt.Sprintf("Batch.Jobs[%d]", i), "Output", "unique_output", out)
			}
			outputs[out] = job.Name
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkJobs)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// NOTE: yaml decoder replaces sequences, jobs from the file are never
	// merged with default jobs
	if cfg, err = unmarshalConfig(data, cfg, haveFile); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Job returns batch job definition by name.
func (c *Config) Job(name string) (JobConfig, bool) {
	for _, job := range c.Batch.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return JobConfig{}, false
}
