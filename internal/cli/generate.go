package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/manifest"
)

const defaultGenerateCount = 1000

// generateCommand creates the generate command for writing random manifests.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		count  int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random manifest for testing",
		Long: `Write a random manifest for testing.

Items get footprints of one to three units on each side, drawn from a seeded
generator so the same seed always yields the same manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), count, seed, output)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", defaultGenerateCount, "number of items")
	cmd.Flags().Uint64Var(&seed, "seed", manifest.DefaultSeed, "random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "manifest.toml", "output file (.toml or .json)")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, count int, seed uint64, output string) error {
	if count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "count must not be negative")
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d items...", count))
	spinner.Start()

	m := manifest.Random(seed, count)
	if err := m.WriteFile(output); err != nil {
		spinner.StopWithError("Generate failed")
		return fmt.Errorf("write manifest %s: %w", output, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %d items", count))

	printFile(output)
	fmt.Println()
	printNextStep("Lay out", appName+" layout "+output)

	return nil
}
