package main

import (
	"errors"
	"maps"

	"artwork-helper/internal/editor"

	"github.com/urfave/cli/v2"
)

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Aliases:   []string{"p"},
		Usage:     "Process the artwork of one item and print key=value attributes",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "item",
				Usage: "Item identifier passed to the metadata source",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Artwork URL used for every art type",
			},
			&cli.StringFlag{
				Name:  "context",
				Usage: "Context name the --art URLs are stored under",
				Value: "cli",
			},
			&cli.StringSliceFlag{
				Name:    "process",
				Aliases: []string{"P"},
				Usage:   "Art type and transform, e.g. clearlogo=crop (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "art",
				Usage: "Art type and URL resolved through the context, e.g. fanart=/art/fanart.jpg (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "meta",
				Usage: "Extra attribute published with the artwork, e.g. title=Movie (repeatable)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Prefix prepended to every printed key",
			},
		},
		Action: func(c *cli.Context) error {
			processes, err := parsePairs(c.StringSlice("process"))
			if err != nil {
				return err
			}
			art, err := parsePairs(c.StringSlice("art"))
			if err != nil {
				return err
			}
			meta, err := parsePairs(c.StringSlice("meta"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if len(processes) == 0 {
				processes = maps.Clone(cfg.Processes)
			}
			if len(processes) == 0 {
				return errors.New("no --process given and none configured")
			}
			if c.String("url") == "" && len(art) == 0 {
				return errors.New("either --url or --art is required")
			}

			var opts componentOptions
			if len(meta) > 0 {
				opts.metadata = editor.StaticMetadata(meta)
			}
			comp, err := newComponents(c.Context, cfg, opts)
			if err != nil {
				return err
			}
			defer comp.Close()

			comp.contexts.Put(c.String("context"), art)

			return comp.editor.Update(c.Context, editor.Request{
				ItemID:    c.String("item"),
				Context:   c.String("context"),
				URL:       c.String("url"),
				Processes: processes,
				Prefix:    c.String("prefix"),
			}, editor.NewWriterSink(c.App.Writer))
		},
	}
}
