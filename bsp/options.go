// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Options bound the resources a decode may use. All size fields come from
// the file itself, so they are capped before being used for allocations.
type Options struct {
	// MaxLumpSize caps the decompressed size of a single lump.
	MaxLumpSize int `yaml:"max_lump_size"`
	// MaxClusters caps the cluster count read from the visibility lump.
	MaxClusters int `yaml:"max_clusters"`
	// LumpCacheSize is the number of decompressed lumps kept around.
	LumpCacheSize int `yaml:"lump_cache_size"`

	Logger *slog.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		MaxLumpSize:   256 << 20,
		MaxClusters:   1 << 16,
		LumpCacheSize: 64,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxLumpSize <= 0 {
		o.MaxLumpSize = d.MaxLumpSize
	}
	if o.MaxClusters <= 0 {
		o.MaxClusters = d.MaxClusters
	}
	if o.LumpCacheSize <= 0 {
		o.LumpCacheSize = d.LumpCacheSize
	}
	if o.Logger == nil {
		o.Logger = logger()
	}
	return o
}

// LoadOptions reads options from a yaml document. Missing or zero values keep
// their defaults.
func LoadOptions(r io.Reader) (Options, error) {
	var o Options
	if err := yaml.NewDecoder(r).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return o, errors.Wrap(err, "decode options")
	}
	return o.withDefaults(), nil
}
