package config

import (
	"maps"
	"slices"

	"dario.cat/mergo"
)

var mergeOpts = []func(*mergo.Config){
	mergo.WithOverride,
	mergo.WithoutDereference,
	mergo.WithAppendSlice,
}

// Update layers src over cfg: scalars set in src override, lists append and
// maps merge key-wise. Neither input is mutated.
func (cfg FileConfig) Update(src FileConfig) (FileConfig, error) {
	out := cfg.clone()
	src = src.clone()
	if err := mergo.Merge(&out.Files, src.Files, mergeOpts...); err != nil {
		return cfg, err
	}
	if err := mergo.Merge(&out.Default, src.Default, mergeOpts...); err != nil {
		return cfg, err
	}
	for name, t := range src.Type {
		if out.Type == nil {
			out.Type = map[string]TypeConfig{}
		}
		merged := out.Type[name]
		if err := mergo.Merge(&merged, t, mergeOpts...); err != nil {
			return cfg, err
		}
		out.Type[name] = merged
	}
	return out, nil
}

// update layers src over c with the same rules as FileConfig.Update.
func (c EngineConfig) update(src EngineConfig) (EngineConfig, error) {
	out := c.clone()
	err := mergo.Merge(&out, src.clone(), mergeOpts...)
	return out, err
}

func (cfg FileConfig) clone() FileConfig {
	out := FileConfig{
		Files:   cfg.Files,
		Default: cfg.Default.clone(),
	}
	out.Files.ExtendExclude = slices.Clone(cfg.Files.ExtendExclude)
	if cfg.Type != nil {
		out.Type = make(map[string]TypeConfig, len(cfg.Type))
		for name, t := range cfg.Type {
			out.Type[name] = TypeConfig{
				ExtendGlob:   slices.Clone(t.ExtendGlob),
				EngineConfig: t.EngineConfig.clone(),
			}
		}
	}
	return out
}

func (c EngineConfig) clone() EngineConfig {
	c.ExtendIgnoreRe = slices.Clone(c.ExtendIgnoreRe)
	c.ExtendIdentifiers = maps.Clone(c.ExtendIdentifiers)
	c.ExtendWords = maps.Clone(c.ExtendWords)
	return c
}
