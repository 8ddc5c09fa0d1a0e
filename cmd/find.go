package cmd

import (
	"log"

	"github.com/pkg/profile"
	"github.com/sciseim/norg-suite/config"
	"github.com/sciseim/norg-suite/internal/norg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var profileRun bool

// findCmd runs the full pipeline: align the organelle genome against the
// nuclear genome, filter hits in segmental duplications, chain the rest
// into insertion loci, and write the results.
var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find organelle insertions in a nuclear genome",
	Long: `Find organelle-genome insertions in a nuclear genome.

"norg find" aligns the organelle genome against the nuclear genome with blastn
and consolidates the raw hit list into a minimal set of insertion loci. It does
this by:

1. Separating hits whose flanking context falls in a nuclear segmental
   duplication, since those are artifacts of the duplication rather than
   true organelle insertions
2. Chaining adjacent, collinear hits that were split by small indels or
   point mutations back into single insertion calls

Coordinates are written per insertion locus along with the nuclear sequence
of each unique locus.`,
	Run: func(cmd *cobra.Command, args []string) {
		if profileRun {
			defer profile.Start(profile.ProfilePath(".")).Stop()
		}

		conf, err := config.New()
		if err != nil {
			log.Fatalf("%v", err)
		}

		if err := norg.Find(conf); err != nil {
			log.Fatalf("failed to find insertions: %v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(findCmd)

	// input and output paths
	findCmd.Flags().StringP("nuclear", "n", "", "path to the nuclear genome FASTA file")
	findCmd.Flags().StringP("organelle", "g", "", "path to the organelle genome FASTA file")
	findCmd.Flags().StringP("segdup", "d", "", "path to a BED file of segmental duplications (optional)")
	findCmd.Flags().StringP("out", "o", "norg", "prefix for the output files")

	// organelle genome form
	findCmd.Flags().Bool("circular", false, "whether the organelle genome is circular")

	// blastn settings
	findCmd.Flags().String("blastn", "blastn", "path to the blastn executable")
	findCmd.Flags().Float64("evalue", 1e-5, "expect value threshold for blastn")
	findCmd.Flags().Int("identity", 80, "percent identity threshold for blastn")

	// duplicate filter settings
	findCmd.Flags().Int("flank", 1000, "bases of flanking context examined on each side of a hit")
	findCmd.Flags().Float64("coverage", 0.9, "fraction of a hit's flank that must fall in a duplication to flag it")
	findCmd.Flags().String("filter-mode", "auto", "duplicate detection mode: auto, annotation, or pairwise")
	findCmd.Flags().Bool("no-filter", false, "skip duplicate filtering, treat every hit as unique")

	// chaining settings
	findCmd.Flags().Int("max-deletion", 500, "maximum implied nuclear deletion between chained hits")
	findCmd.Flags().Int("max-insertion", 10000, "maximum nuclear insertion between chained hits")
	findCmd.Flags().Int("max-concat", 300, "maximum chaining distance in either coordinate space")
	findCmd.Flags().Int("max-overlap", 100, "maximum organelle overlap between chained hits")
	findCmd.Flags().Bool("no-chain", false, "skip chaining, emit every hit as its own locus")

	findCmd.Flags().BoolVar(&profileRun, "profile", false, "write a CPU profile for the run")

	findCmd.MarkFlagRequired("nuclear")
	findCmd.MarkFlagRequired("organelle")

	viper.BindPFlag("nuclear", findCmd.Flags().Lookup("nuclear"))
	viper.BindPFlag("organelle", findCmd.Flags().Lookup("organelle"))
	viper.BindPFlag("segdup", findCmd.Flags().Lookup("segdup"))
	viper.BindPFlag("out", findCmd.Flags().Lookup("out"))
	viper.BindPFlag("circular", findCmd.Flags().Lookup("circular"))
	viper.BindPFlag("blast.path", findCmd.Flags().Lookup("blastn"))
	viper.BindPFlag("blast.evalue", findCmd.Flags().Lookup("evalue"))
	viper.BindPFlag("blast.identity", findCmd.Flags().Lookup("identity"))
	viper.BindPFlag("filter.flank", findCmd.Flags().Lookup("flank"))
	viper.BindPFlag("filter.coverage", findCmd.Flags().Lookup("coverage"))
	viper.BindPFlag("filter.mode", findCmd.Flags().Lookup("filter-mode"))
	viper.BindPFlag("filter.disabled", findCmd.Flags().Lookup("no-filter"))
	viper.BindPFlag("chain.max-deletion", findCmd.Flags().Lookup("max-deletion"))
	viper.BindPFlag("chain.max-insertion", findCmd.Flags().Lookup("max-insertion"))
	viper.BindPFlag("chain.max-concat", findCmd.Flags().Lookup("max-concat"))
	viper.BindPFlag("chain.max-overlap", findCmd.Flags().Lookup("max-overlap"))
	viper.BindPFlag("chain.disabled", findCmd.Flags().Lookup("no-chain"))
}
