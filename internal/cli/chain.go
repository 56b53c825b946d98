package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
)

// chainCommand creates the chain command, which prints the path from n to 1.
func (c *CLI) chainCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "chain <n>",
		Short:   "Print the Collatz chain from n to 1",
		Example: "  coral chain 27\n  coral chain 27 --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid number %q", args[0])
			}
			chain, err := collatz.Chain(collatz.Node(n))
			if err != nil {
				return err
			}
			return printChain(cmd.OutOrStdout(), chain, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printChain(w io.Writer, chain []collatz.Node, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(chain)
	}

	peak := chain[0]
	parts := make([]string, len(chain))
	for i, n := range chain {
		peak = max(peak, n)
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	fmt.Fprintln(w, strings.Join(parts, " → "))
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d steps, peak %d", len(chain)-1, peak)))
	return nil
}
