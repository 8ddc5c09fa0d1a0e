package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNew(t *testing.T) {
	viper.Reset()
	viper.Set("nuclear", "genome.fa")
	viper.Set("organelle", "mito.fa")
	viper.Set("circular", true)
	viper.Set("filter.flank", 500)
	viper.Set("filter.coverage", 0.8)
	viper.Set("chain.max-deletion", 250)
	viper.Set("chain.max-concat", 100)

	c, err := New()
	if err != nil {
		t.Fatalf("failed to create a config: %v", err)
	}

	if c.Nuclear != "genome.fa" {
		t.Errorf("Config.Nuclear = %s, want genome.fa", c.Nuclear)
	}
	if !c.Circular {
		t.Error("Config.Circular = false, want true")
	}
	if c.Filter.Flank != 500 {
		t.Errorf("Config.Filter.Flank = %d, want 500", c.Filter.Flank)
	}
	if c.Filter.Coverage != 0.8 {
		t.Errorf("Config.Filter.Coverage = %f, want 0.8", c.Filter.Coverage)
	}
	if c.Chain.MaxDeletion != 250 {
		t.Errorf("Config.Chain.MaxDeletion = %d, want 250", c.Chain.MaxDeletion)
	}
	if c.Chain.MaxConcat != 100 {
		t.Errorf("Config.Chain.MaxConcat = %d, want 100", c.Chain.MaxConcat)
	}
}
