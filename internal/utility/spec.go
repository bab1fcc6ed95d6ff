package utility

import (
	"fmt"
	"slices"
)

// Spec names a utility family and its parameters, as read from flags or
// scenario files. Missing parameters take the family defaults.
type Spec struct {
	Name   string             `yaml:"name" json:"name"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// family describes one registered utility family.
type family struct {
	primary  string
	defaults map[string]float64
	build    func(p map[string]float64) (Func, error)
}

var families = map[string]family{
	"linear": {
		primary:  "slope",
		defaults: map[string]float64{"intercept": 0, "slope": 1.0},
		build: func(p map[string]float64) (Func, error) {
			return Linear(p["intercept"], p["slope"]), nil
		},
	},
	"cara": {
		primary:  "r",
		defaults: map[string]float64{"r": 0.005},
		build: func(p map[string]float64) (Func, error) {
			return CARA(p["r"]), nil
		},
	},
	"crra": {
		primary:  "r",
		defaults: map[string]float64{"r": 0.5},
		build: func(p map[string]float64) (Func, error) {
			return CRRA(p["r"]), nil
		},
	},
	"exponential": {
		primary:  "a",
		defaults: map[string]float64{"a": 0.005},
		build: func(p map[string]float64) (Func, error) {
			return Exponential(p["a"]), nil
		},
	},
	"hara": {
		primary:  "a",
		defaults: map[string]float64{"a": 2, "b": 50},
		build: func(p map[string]float64) (Func, error) {
			if p["a"] == 0 && p["b"] == 0 {
				return nil, fmt.Errorf("hara: a and b must not both be zero")
			}
			return HARA(p["a"], p["b"]), nil
		},
	},
}

// Names returns the registered family names in sorted order.
func Names() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FromSpec builds the Func described by s.
// Unknown families and unknown parameter names are rejected.
func FromSpec(s Spec) (Func, error) {
	fam, ok := families[s.Name]
	if !ok {
		return nil, fmt.Errorf("unknown utility %q: must be one of %v", s.Name, Names())
	}

	params := make(map[string]float64, len(fam.defaults))
	for k, v := range fam.defaults {
		params[k] = v
	}
	for k, v := range s.Params {
		if _, known := fam.defaults[k]; !known {
			return nil, fmt.Errorf("utility %s: unknown parameter %q: must be one of %v", s.Name, k, paramNames(fam))
		}
		params[k] = v
	}
	return fam.build(params)
}

// PrimaryParam returns the parameter a sweep varies for the named family,
// e.g. "r" for crra.
func PrimaryParam(name string) (string, error) {
	fam, ok := families[name]
	if !ok {
		return "", fmt.Errorf("unknown utility %q: must be one of %v", name, Names())
	}
	return fam.primary, nil
}

// With returns a copy of s with parameter key set to v.
func (s Spec) With(key string, v float64) Spec {
	params := make(map[string]float64, len(s.Params)+1)
	for k, val := range s.Params {
		params[k] = val
	}
	params[key] = v
	return Spec{Name: s.Name, Params: params}
}

func paramNames(f family) []string {
	names := make([]string, 0, len(f.defaults))
	for k := range f.defaults {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
