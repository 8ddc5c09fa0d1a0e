// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// BlastConfig is settings for the blastn run against the nuclear genome
type BlastConfig struct {
	// the path to the blastn executable
	Path string `mapstructure:"path"`

	// the expect value threshold for reported hits
	Evalue float64 `mapstructure:"evalue"`

	// the percent identity threshold for reported hits
	Identity int `mapstructure:"identity"`
}

// FilterConfig is settings for the segmental duplication filter
type FilterConfig struct {
	// skip duplicate filtering entirely
	Disabled bool `mapstructure:"disabled"`

	// bases of flanking context examined on each side of a hit
	Flank int `mapstructure:"flank"`

	// the fraction of a hit's flank that must fall within a
	// duplication for the hit to be flagged as a duplicate
	Coverage float64 `mapstructure:"coverage"`

	// how duplicates are detected: auto, annotation, or pairwise
	Mode string `mapstructure:"mode"`
}

// ChainConfig is settings for chaining hits into insertion loci
type ChainConfig struct {
	// skip chaining, emit every hit as its own locus
	Disabled bool `mapstructure:"disabled"`

	// the maximum implied nuclear deletion between chained hits
	MaxDeletion int `mapstructure:"max-deletion"`

	// the maximum nuclear insertion between chained hits
	MaxInsertion int `mapstructure:"max-insertion"`

	// the maximum chaining distance in either coordinate space
	MaxConcat int `mapstructure:"max-concat"`

	// the maximum organelle overlap between chained hits
	MaxOverlap int `mapstructure:"max-overlap"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// path to the nuclear genome FASTA file
	Nuclear string `mapstructure:"nuclear"`

	// path to the organelle genome FASTA file
	Organelle string `mapstructure:"organelle"`

	// path to a BED file with segmental duplication annotations (optional)
	SegDup string `mapstructure:"segdup"`

	// prefix for the output files
	Out string `mapstructure:"out"`

	// whether the organelle genome is circular
	Circular bool `mapstructure:"circular"`

	// blastn settings
	Blast BlastConfig `mapstructure:"blast"`

	// duplicate filter settings
	Filter FilterConfig `mapstructure:"filter"`

	// chaining settings
	Chain ChainConfig `mapstructure:"chain"`
}

// New returns a new Config struct populated by Viper settings
// (either from a settings file or command line arguments)
func New() (*Config, error) {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	return &c, nil
}
