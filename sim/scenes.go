// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/math32"
	"cogentcore.org/particles/kernels"
	"cogentcore.org/particles/particles"
	"gopkg.in/yaml.v3"
)

// Preset is a named simulation setup: the initial particle state,
// the force kernel, and its uniforms.
type Preset struct {
	// Name of the preset.
	Name string

	// Variant is the force kernel.
	Variant kernels.Variants

	// Dt is the time step.
	Dt float32

	// Distribution of initial positions.
	Distribution particles.Distribution

	// Velocity of initial velocities, nil for rest.
	Velocity particles.VelocityRule

	// Scene uniforms, for SceneCollision.
	Scene kernels.Scene

	// Gravity uniforms, for the all-pairs variants.
	Gravity kernels.Gravity
}

// Presets returns all built-in presets, sorted by name.
func Presets() []*Preset {
	fountain := &Preset{Name: "fountain", Variant: kernels.SceneCollision, Dt: 1.0 / 60,
		Distribution: &particles.Cube{Center: math32.Vec3(0, 20, 0), Size: math32.Vec3(5, 5, 5)}}
	fountain.Scene.Defaults()

	freefall := &Preset{Name: "freefall", Variant: kernels.SceneCollision, Dt: 1.0 / 60,
		Distribution: &particles.Point{}}
	freefall.Scene.Defaults()
	freefall.Scene.SetColliders()

	nbody := &Preset{Name: "nbody", Variant: kernels.AllPairsTiled, Dt: 0.005,
		Distribution: &particles.Gaussian{Sigma: math32.Vec3(1, 0.2, 1)}}

	disk := &Preset{Name: "disk", Variant: kernels.AllPairsTiledPasses, Dt: 0.001,
		Distribution: &particles.Disk{Scale: math32.Vec3(4, 1, 4)},
		Velocity:     &particles.Orbital{Strength: 40, Axis: math32.Vec3(0, 1, 0)}}

	spiral := &Preset{Name: "spiral", Variant: kernels.AllPairsTiled, Dt: 0.002,
		Distribution: &particles.Spiral{Arms: 3, Radius: 10, Twist: 4, Spread: 0.15, Thickness: 0.2},
		Velocity:     &particles.Orbital{Strength: 20, Axis: math32.Vec3(0, 1, 0)}}

	ps := []*Preset{fountain, freefall, nbody, disk, spiral}
	for _, p := range ps {
		p.Gravity.Defaults()
	}
	slices.SortFunc(ps, func(a, b *Preset) int { return strings.Compare(a.Name, b.Name) })
	return ps
}

// PresetByName returns the built-in preset with given name.
func PresetByName(name string) (*Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &particles.ConfigError{Field: "Scenario", Reason: fmt.Sprintf("%q is not a preset", name)}
}

// Apply sets the simulation configuration from the preset.
func (p *Preset) Apply(cfg *Config) {
	cfg.Variant = p.Variant
	cfg.Scene = p.Scene
	cfg.Gravity = p.Gravity
}

// SceneFile is the file representation of the simulation uniforms.
type SceneFile struct {

	// Scene uniforms; its colliders are in Colliders.
	Scene kernels.Scene

	// Colliders are the sphere colliders.
	Colliders []math32.Sphere

	// Gravity uniforms.
	Gravity kernels.Gravity
}

// NewSceneFile returns the SceneFile for the given configuration.
func NewSceneFile(cfg *Config) *SceneFile {
	sf := &SceneFile{Scene: cfg.Scene, Gravity: cfg.Gravity}
	sf.Colliders = slices.Clone(cfg.Scene.ActiveColliders())
	return sf
}

// Apply sets the uniforms of the configuration from the file.
func (sf *SceneFile) Apply(cfg *Config) error {
	cfg.Scene = sf.Scene
	cfg.Gravity = sf.Gravity
	return cfg.Scene.SetColliders(sf.Colliders...)
}

// isYAML returns whether the file name has a YAML extension.
func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// OpenScene opens a SceneFile from a TOML file, or from a YAML file
// if the file name ends in .yaml or .yml.
func OpenScene(filename string) (*SceneFile, error) {
	sf := &SceneFile{}
	if !isYAML(filename) {
		if err := tomlx.Open(sf, filename); err != nil {
			return nil, errors.Log(err)
		}
		return sf, nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Log(err)
	}
	if err := yaml.Unmarshal(b, sf); err != nil {
		return nil, errors.Log(fmt.Errorf("sim.OpenScene %q: %w", filename, err))
	}
	return sf, nil
}

// SaveScene saves the SceneFile as TOML, or as YAML if the file
// name ends in .yaml or .yml.
func SaveScene(sf *SceneFile, filename string) error {
	if !isYAML(filename) {
		return errors.Log(tomlx.Save(sf, filename))
	}
	b, err := yaml.Marshal(sf)
	if err != nil {
		return errors.Log(err)
	}
	return errors.Log(os.WriteFile(filename, b, 0666))
}
