package main

import (
	"fmt"
	"path/filepath"
	"strings"

	astroforge "github.com/Yashgit1728/AstroForge-sub000"
	"github.com/Yashgit1728/AstroForge-sub000/optimize"
)

// design is one scenario to optimize.
type design struct {
	name    string
	mission *astroforge.Mission
	cfg     optimize.Config
}

func (d design) String() string {
	params := make([]string, len(d.cfg.Parameters))
	for i, p := range d.cfg.Parameters {
		params[i] = fmt.Sprintf("%s in [%g, %g]", p.Parameter, p.Min, p.Max)
	}
	objs := make([]string, len(d.cfg.Objectives))
	for i, o := range d.cfg.Objectives {
		objs[i] = string(o)
	}
	return fmt.Sprintf("%s: %s, %s", d.name, strings.Join(objs, "+"), strings.Join(params, ", "))
}

func readDesign(path string, conf astroforge.Config) (design, error) {
	v, err := astroforge.OpenScenario(path)
	if err != nil {
		return design{}, err
	}
	m, err := astroforge.ReadMission(v)
	if err != nil {
		return design{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := optimize.ReadConfig(v, m, conf)
	if err != nil {
		return design{}, fmt.Errorf("%s: %w", path, err)
	}
	return design{name: strings.TrimSuffix(filepath.Base(path), ".toml"), mission: m, cfg: cfg}, nil
}
