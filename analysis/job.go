package analysis

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"makejets/config"
)

// Job is a fully resolved unit of work: one input, two outputs and optional
// plots directory.
type Job struct {
	Name       string
	Input      string
	Histos     string
	Info       string
	Plots      string
	Collection config.Collection
	Cuts       bool
}

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Job        string
	Input      string
	Collection string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}

// JobFrom expands output name templates of configured batch job.
func JobFrom(jc *config.JobConfig) (Job, error) {
	values := Values{
		Job:        jc.Name,
		Input:      strings.TrimSuffix(filepath.Base(jc.Input), filepath.Ext(jc.Input)),
		Collection: jc.Collection.String(),
	}

	job := Job{Name: jc.Name, Input: jc.Input, Collection: jc.Collection, Cuts: jc.Cuts}
	for _, f := range []struct {
		name config.TemplateFieldName
		src  string
		dst  *string
	}{
		{config.HistosTemplateFieldName, jc.Histos, &job.Histos},
		{config.InfoTemplateFieldName, jc.Info, &job.Info},
		{config.PlotsTemplateFieldName, jc.Plots, &job.Plots},
	} {
		if len(f.src) == 0 {
			continue
		}
		expanded, err := expandTemplate(f.name, f.src, values)
		if err != nil {
			return Job{}, fmt.Errorf("job %s: %w", jc.Name, err)
		}
		expanded = strings.TrimSpace(expanded)
		if len(expanded) == 0 {
			return Job{}, fmt.Errorf("job %s: %s expanded to empty name", jc.Name, f.name)
		}
		*f.dst = filepath.Clean(filepath.FromSlash(expanded))
	}
	return job, nil
}

// outputs lists every path job writes into.
func (j *Job) outputs() []string {
	out := []string{j.Histos, j.Info}
	if len(j.Plots) > 0 {
		out = append(out, j.Plots)
	}
	return out
}

// selectJobs resolves jobs requested by name, all configured jobs when names
// is empty, and makes sure no two of them write into the same place.
func selectJobs(cfg *config.Config, names []string) ([]Job, error) {
	if len(names) == 0 {
		for _, jc := range cfg.Batch.Jobs {
			names = append(names, jc.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no batch jobs configured", ErrArgs)
	}

	jobs := make([]Job, 0, len(names))
	owners := make(map[string]string)
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		jc, ok := cfg.Job(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown job %q", ErrArgs, name)
		}
		job, err := JobFrom(&jc)
		if err != nil {
			return nil, err
		}
		for _, out := range job.outputs() {
			abs, err := filepath.Abs(out)
			if err != nil {
				return nil, err
			}
			if other, exists := owners[abs]; exists {
				return nil, fmt.Errorf("jobs %s and %s write into the same location %s", other, job.Name, out)
			}
			owners[abs] = job.Name
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
