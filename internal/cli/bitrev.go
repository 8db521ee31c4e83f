package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/bitrev"
	"github.com/matzehuels/butterfly/pkg/errors"
)

// bitrevCommand creates the bitrev command for printing the input ordering.
func (c *CLI) bitrevCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "bitrev <logN>",
		Short: "Print the bit-reversal permutation of 2^logN inputs",
		Long: `Print the bit-reversal permutation used to order the inputs of a
radix-2 FFT with 2^logN points. Each row shows an index, its binary form, the
reversed index and its binary form.`,
		Example: `  butterfly bitrev 3
  butterfly bitrev 4 --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logN, err := c.parseLogN(args[0])
			if err != nil {
				return err
			}
			perm, err := bitrev.Permutation(logN)
			if err != nil {
				return err
			}
			c.Logger.Debug("Computed permutation", "log_n", logN, "size", len(perm))

			if plain {
				return writeBitrevPlain(cmd.OutOrStdout(), perm)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), bitrevTable(logN, perm))
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one reversed index per line")

	return cmd
}

// parseLogN parses a logN argument and bounds it by limits.max_log_n.
func (c *CLI) parseLogN(arg string) (int, error) {
	logN, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "logN must be an integer, got %q", arg)
	}
	if err := errors.ValidateLogN(logN, c.Config.Limits.MaxLogN); err != nil {
		return 0, err
	}
	return logN, nil
}

// writeBitrevPlain writes the permutation one entry per line.
func writeBitrevPlain(w io.Writer, perm []int) error {
	for _, r := range perm {
		if _, err := fmt.Fprintln(w, r); err != nil {
			return err
		}
	}
	return nil
}

// bitrevTable renders index and reversed index side by side in binary.
// Fixed points of the permutation are dimmed.
func bitrevTable(logN int, perm []int) string {
	rows := make([][]string, len(perm))
	for i, r := range perm {
		rows[i] = []string{strconv.Itoa(i), binary(i, logN), binary(r, logN), strconv.Itoa(r)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("i", "bits", "reversed", "x").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if perm[row] == row {
				return base.Foreground(colorDim)
			}
			if col == 3 {
				return base.Foreground(colorCyan)
			}
			return base
		}).
		Render()
}

// binary formats v with exactly bits binary digits; zero bits yields "-".
func binary(v, bits int) string {
	if bits == 0 {
		return "-"
	}
	return fmt.Sprintf("%0*b", bits, v)
}
