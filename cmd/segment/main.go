// Command segment выделяет детали на фотографии и сохраняет их в хранилище.
//
// Usage: segment [-v] [-prefix name] [-classify] <photo>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jigsaw-bot/config"
	"jigsaw-bot/internal/container"
	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/infrastructure/vision"
	"jigsaw-bot/internal/logger"
)

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	prefix := flag.String("prefix", "", "piece id prefix (default: photo file name)")
	classify := flag.Bool("classify", false, "classify pieces right after segmentation")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-prefix name] [-classify] <photo>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(apperrors.ExitUsage)
	}
	os.Exit(run(flag.Arg(0), *prefix, *classify, *verbose))
}

func run(path, prefix string, classify, verbose bool) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return apperrors.ExitUsage
	}
	logger.SetLevel(cfg.LogLevel)
	if verbose {
		logger.SetLevel("debug")
	}

	c, err := container.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.GetExitCode(err)
	}
	defer c.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading photo: %v\n", err)
		return apperrors.ExitNotFound
	}
	data, _, err = vision.NormalizePhoto(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.GetExitCode(err)
	}

	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ctx := context.Background()
	if !classify {
		pieces, err := c.PieceService.Segment(ctx, data, prefix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return apperrors.GetExitCode(err)
		}
		for _, p := range pieces {
			fmt.Printf("%s\t%d points\t%v\n", p.ID(), p.Len(), p.Bounds())
		}
		return apperrors.ExitOK
	}

	outcomes, err := c.PieceService.Ingest(ctx, data, prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.GetExitCode(err)
	}
	code := apperrors.ExitOK
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("%s\terror: %v\n", o.ID, o.Err)
			if code == apperrors.ExitOK {
				code = apperrors.GetExitCode(o.Err)
			}
			continue
		}
		fmt.Printf("%s\t%s\n", o.ID, entity.FormatEdgeTypes(o.Piece.EdgeTypes()))
	}
	return code
}
