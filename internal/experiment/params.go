package experiment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/astropc/internal/config"
	"github.com/san-kum/astropc/internal/physics"
	"github.com/san-kum/astropc/internal/report"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrBadArgument   = errors.New("invalid argument")
	ErrMissingParams = errors.New("missing parameters")
)

// Request gathers every source of parameter values for one run.
// Positional Args win over Config, Config over Preset; whatever is still
// missing is asked through the prompter.
type Request struct {
	Chapter    string
	Args       []string
	Config     *config.Config
	Preset     string
	Integrator string
	MaxSteps   int
	NoPause    bool
}

// Resolve builds a ready to run experiment. prompter may be nil, in which
// case missing parameters are an error.
func (r *Registry) Resolve(req Request, prompter report.Prompter) (*Experiment, error) {
	name := req.Chapter
	if name == "" && req.Config != nil {
		name = req.Config.Chapter
	}
	ch, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	params := ch.Params()
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.Key
	}

	cfg := config.DefaultConfig()
	cfg.MaxSteps = 0
	cfg.Chapter = name

	if req.Config != nil {
		if req.Config.Chapter != "" && req.Config.Chapter != name {
			return nil, fmt.Errorf("config is for chapter %s, not %s", req.Config.Chapter, name)
		}
		cfg.Merge(req.Config)
		cfg.NoPause = req.Config.NoPause
	}
	if req.Preset != "" {
		preset := config.GetPreset(name, req.Preset)
		if preset == nil {
			return nil, fmt.Errorf("%w: %s has no preset %q (have %s)", ErrUnknownPreset, name, req.Preset, strings.Join(config.ListPresets(name), ", "))
		}
		cfg.Merge(preset)
	}

	if len(req.Args) > len(params) {
		return nil, fmt.Errorf("%w: %s takes at most %d values, got %d", ErrBadArgument, name, len(params), len(req.Args))
	}
	for i, arg := range req.Args {
		v, err := parseValue(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadArgument, params[i].Key, err)
		}
		cfg.Params[params[i].Key] = v
	}

	if _, missing := cfg.Values(keys); len(missing) > 0 {
		if prompter == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
		}
		for _, p := range params {
			if _, ok := cfg.Params[p.Key]; ok {
				continue
			}
			v, err := ask(prompter, p)
			if err != nil {
				return nil, err
			}
			cfg.Params[p.Key] = v
		}
	}

	if req.Integrator != "" {
		cfg.Integrator = req.Integrator
	}
	if req.MaxSteps > 0 {
		cfg.MaxSteps = req.MaxSteps
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = config.DefaultMaxSteps
	}
	cfg.NoPause = cfg.NoPause || req.NoPause
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	integ, err := r.Integrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	values, _ := cfg.Values(keys)

	return &Experiment{
		Chapter: ch,
		Config:  cfg,
		Input: physics.Input{
			Values:     values,
			Integrator: integ,
			MaxSteps:   cfg.MaxSteps,
		},
	}, nil
}

// ask repeats the question until the answer parses.
func ask(prompter report.Prompter, p physics.Param) (float64, error) {
	for {
		answer, err := prompter.Ask(p.Label + "?")
		if err != nil {
			return 0, fmt.Errorf("%s: %w", p.Key, err)
		}
		v, err := parseValue(answer)
		if err == nil {
			return v, nil
		}
	}
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
