package extractor

import (
	"fmt"
	"io"

	"github.com/antchfx/htmlquery"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
	"github.com/wenzapen/harvest/resolver"
)

type debugOptions struct {
	options
	at string
}

// NewDebugCmd prints, for every element selected by --at, how each
// top-level resolver of the rule file evaluates on it.
func NewDebugCmd() *cobra.Command {
	var o debugOptions
	cmd := &cobra.Command{
		Use:   "debug [FILE]",
		Short: "show how the rules evaluate on selected elements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}
	o.bind(cmd)
	cmd.Flags().StringVar(&o.at, "at", "//body", "xpath selecting the elements to inspect")
	return cmd
}

type debugEntry struct {
	Element   string                    `json:"element" yaml:"element"`
	Resolvers map[string]resolver.Debug `json:"resolvers" yaml:"resolvers"`
}

func (o *debugOptions) run(stdin io.Reader, stdout io.Writer, args []string) error {
	s, err := o.open()
	if err != nil {
		return err
	}
	defer s.close()

	var doc *html.Node
	if len(args) == 0 || args[0] == "-" {
		doc, err = dom.Load(stdin)
	} else {
		doc, err = dom.LoadFile(args[0])
	}
	if err != nil {
		return err
	}

	nodes, err := htmlquery.QueryAll(doc, o.at)
	if err != nil {
		return fmt.Errorf("--at: %w", err)
	}

	enc, closeEnc, err := newEncoder(stdout, o.format)
	if err != nil {
		return err
	}
	defer closeEnc()

	for _, n := range nodes {
		if !dom.IsElement(n) {
			continue
		}
		entry := debugEntry{
			Element:   htmlquery.OutputHTML(n, true),
			Resolvers: s.engine.Debug(n),
		}
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}
