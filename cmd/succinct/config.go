package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileBuildConf mirrors fmph.BuildConf's tunables in a form that can be
// loaded from a YAML file with the -config flag.
type fileBuildConf struct {
	CacheThreshold     int    `yaml:"cache_threshold"`
	RelativeLevelSize  uint16 `yaml:"relative_level_size"`
	UseMultipleThreads bool   `yaml:"use_multiple_threads"`
}

func loadBuildConf(path string) (fileBuildConf, error) {
	conf := fileBuildConf{
		CacheThreshold:     1024 * 1024 * 128,
		RelativeLevelSize:  100,
		UseMultipleThreads: true,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, err
	}
	return conf, nil
}
