package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lindenberg-remote-sensing/peaktree/peaktree"
)

// build_single handles the conversion of a single spectrum-source array.
func build_single(source_uri, config_uri, out_uri, metadata_uri, campaign string) error {
	settings, err := peaktree.LoadCampaignSettings(campaign)
	if err != nil {
		return err
	}

	log.Println("Opening spectrum source:", source_uri)
	src, err := peaktree.OpenTileDBSource(source_uri, config_uri)
	if err != nil {
		return err
	}
	defer src.Close()

	log.Println("Building peak trees; writing to:", out_uri)
	err = peaktree.Build(src, peaktree.BuildOptions{
		OutputURI:   out_uri,
		ConfigURI:   config_uri,
		MetadataURI: metadata_uri,
		Settings:    settings,
	})
	if err != nil {
		return err
	}

	log.Println("Finished:", source_uri)

	return nil
}

// build_trawl discovers and processes every spectrum-source array under uri.
func build_trawl(uri, config_uri, outdir_uri, metadata_uri, campaign string) error {
	settings, err := peaktree.LoadCampaignSettings(campaign)
	if err != nil {
		return err
	}

	log.Println("Searching uri:", uri)
	return peaktree.BuildList(uri, config_uri, outdir_uri, metadata_uri, settings)
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "build",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source-uri",
						Usage: "URI or pathname to a spectrum-source TileDB array.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "out-uri",
						Usage: "URI or pathname for the output peak-tree TileDB array.",
					},
					&cli.StringFlag{
						Name:  "metadata-uri",
						Usage: "URI or pathname to the accompanying site metadata JSON document.",
					},
					&cli.StringFlag{
						Name:  "campaign",
						Usage: "Campaign identifier selecting preparation settings (lindenberg, juelich, default).",
						Value: "default",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return build_single(cCtx.String("source-uri"), cCtx.String("config-uri"), cCtx.String("out-uri"), cCtx.String("metadata-uri"), cCtx.String("campaign"))
				},
			},
			{
				Name: "build-list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "URI or pathname to a directory containing spectrum-source TileDB arrays.",
					},
					&cli.StringFlag{
						Name:  "config-uri",
						Usage: "URI or pathname to a TileDB config file.",
					},
					&cli.StringFlag{
						Name:  "outdir-uri",
						Usage: "URI or pathname to an output directory.",
					},
					&cli.StringFlag{
						Name:  "metadata-uri",
						Usage: "URI or pathname to the accompanying site metadata JSON document.",
					},
					&cli.StringFlag{
						Name:  "campaign",
						Usage: "Campaign identifier selecting preparation settings (lindenberg, juelich, default).",
						Value: "default",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return build_trawl(cCtx.String("uri"), cCtx.String("config-uri"), cCtx.String("outdir-uri"), cCtx.String("metadata-uri"), cCtx.String("campaign"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
