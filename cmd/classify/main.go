// Command classify находит углы сохранённых деталей и определяет типы их сторон.
//
// Usage: classify [-v] [-all] <id>...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"jigsaw-bot/config"
	"jigsaw-bot/internal/container"
	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/logger"
)

func main() {
	verbose := flag.Bool("v", false, "print corners and origin, debug logging")
	all := flag.Bool("all", false, "classify every stored piece")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-all] <id>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*all && flag.NArg() == 0 {
		flag.Usage()
		os.Exit(apperrors.ExitUsage)
	}
	os.Exit(run(flag.Args(), *all, *verbose))
}

func run(ids []string, all, verbose bool) int {
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

	ctx := context.Background()
	if all {
		ids, err = c.PieceService.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return apperrors.GetExitCode(err)
		}
	}

	code := apperrors.ExitOK
	for _, o := range c.PieceService.ClassifyAll(ctx, ids) {
		if o.Err != nil {
			fmt.Printf("%s\terror: %v\n", o.ID, o.Err)
			if code == apperrors.ExitOK {
				code = apperrors.GetExitCode(o.Err)
			}
			continue
		}
		fmt.Printf("%s\t%s\n", o.ID, entity.FormatEdgeTypes(o.Piece.EdgeTypes()))
		if verbose {
			fmt.Printf("\torigin %v\n", o.Result.Origin)
			for i := 0; i < entity.EdgeCount; i++ {
				e := o.Result.Edges[i]
				fmt.Printf("\tcorner %d at %v, %s edge: %d deviating, bias %d\n",
					i, o.Piece.Corner(i), entity.EdgeName(i), e.Deviating, e.Bias)
			}
		}
	}
	return code
}
