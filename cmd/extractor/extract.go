package extractor

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wenzapen/harvest/dom"
	"github.com/wenzapen/harvest/flatten"
)

type extractOptions struct {
	options
	flat  bool
	limit int
}

func NewExtractCmd() *cobra.Command {
	var o extractOptions
	cmd := &cobra.Command{
		Use:   "extract [FILE...]",
		Short: "print one record per matching element",
		Long:  "Apply the rule file to every element of each document and print one record per match. Reads stdin when no file is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}
	o.bind(cmd)
	cmd.Flags().BoolVar(&o.flat, "flat", false, "flatten records with the rule file's flatten section")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "stop after this many records (0 means no limit)")
	return cmd
}

var errLimit = errors.New("record limit reached")

func (o *extractOptions) run(stdin io.Reader, stdout io.Writer, paths []string) error {
	s, err := o.open()
	if err != nil {
		return err
	}
	defer s.close()

	var mapper *flatten.Mapper
	if o.flat {
		fields := s.file.Fields()
		if fields == nil {
			return fmt.Errorf("%s: --flat needs a flatten section", o.rulesPath)
		}
		mapper = flatten.New(fields, flatten.WithLogger(s.logger))
	}

	enc, closeEnc, err := newEncoder(stdout, o.format)
	if err != nil {
		return err
	}
	defer closeEnc()

	count := 0
	emit := func(doc *html.Node, source string) error {
		for rec, err := range s.engine.Generate(doc) {
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			var out any = rec
			if mapper != nil {
				flat, missing := mapper.Map(rec)
				if len(missing) > 0 {
					s.logger.Debug("record fields missing", zap.String("source", source), zap.Strings("fields", missing))
				}
				out = flat
			}
			if err := enc.Encode(dom.Plain(out)); err != nil {
				return err
			}
			count++
			if o.limit > 0 && count >= o.limit {
				return errLimit
			}
		}
		return nil
	}

	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		var doc *html.Node
		if path == "-" {
			doc, err = dom.Load(stdin)
		} else {
			doc, err = dom.LoadFile(path)
		}
		if err != nil {
			return err
		}
		if err := emit(doc, path); err != nil {
			if errors.Is(err, errLimit) {
				break
			}
			return err
		}
	}
	s.logger.Info("extract finished", zap.Int("records", count), zap.Int("documents", len(paths)))
	return nil
}
