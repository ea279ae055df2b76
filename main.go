package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/raster-filters/cmd"
	"github.com/rm-hull/raster-filters/internal"
	"github.com/rm-hull/raster-filters/internal/filter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	var opts cmd.ApplyOptions
	var divisor string

	rootCmd := &cobra.Command{
		Use:  "raster-filters",
		Long: `Brightness, contrast and box blur filters for raster images`,
	}

	applyCmd := &cobra.Command{
		Use:   "apply --stage <name=args> [--stage ...] [--out <dir>] FILE...",
		Short: "Run a filter pipeline over one or more image files",
		Example: `  raster-filters apply --stage brightness=1.7 --suffix _brightened.png lake.png
  raster-filters apply --stage contrast=2,0.5 lake.png
  raster-filters apply --stage blur=15 --divisor count city.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Inputs = args
			if c.Flags().Changed("divisor") {
				d, err := filter.ParseDivisor(divisor)
				if err != nil {
					return err
				}
				cfg.BlurDivisor = d
			}
			return cmd.Apply(cfg, opts, log)
		},
	}

	applyCmd.Flags().StringArrayVar(&opts.Stages, "stage", nil, "Filter stage, repeatable: blur=<k>, brightness=<f>, contrast=<f>[,<mid>], gaussian=<sigma>")
	applyCmd.Flags().StringVar(&opts.OutDir, "out", "./out", "Output directory")
	applyCmd.Flags().StringVar(&opts.Suffix, "suffix", ".png", "Appended to each input's base name; its extension picks the encoder (.png, .jpg, .bmp)")
	applyCmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Replace existing output files")
	applyCmd.Flags().IntVar(&cfg.PoolSize, "pool-size", cfg.PoolSize, "Number of files processed concurrently")
	applyCmd.Flags().IntVar(&cfg.BlurWorkers, "blur-workers", cfg.BlurWorkers, "Row bands computed concurrently within one blur")
	applyCmd.Flags().StringVar(&divisor, "divisor", cfg.BlurDivisor.String(), "Box blur divisor: nominal (kernel area, darkens edges) or count (samples summed)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			internal.ShowVersion(log)
		},
	}

	rootCmd.AddCommand(applyCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
