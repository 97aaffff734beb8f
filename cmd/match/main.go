// Command match сравнивает стороны сохранённых деталей.
//
// Usage:
//
//	match [-v] [-o overlay.jpg] <idA> <idB> <edgeA> <edgeB>
//	match [-v] -all <id>
//
// Стороны задаются именем (top, left, bottom, right) или индексом 0..3.
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
	verbose := flag.Bool("v", false, "debug logging")
	all := flag.Bool("all", false, "match the piece against every stored piece")
	overlay := flag.String("o", "", "write the aligned edges overlay to this JPEG file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] [-o overlay.jpg] <idA> <idB> <edgeA> <edgeB>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-v] -all <id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if (*all && flag.NArg() != 1) || (!*all && flag.NArg() != 4) {
		flag.Usage()
		os.Exit(apperrors.ExitUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(apperrors.ExitUsage)
	}
	logger.SetLevel(cfg.LogLevel)
	if *verbose {
		logger.SetLevel("debug")
	}

	c, err := container.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.GetExitCode(err))
	}

	var code int
	if *all {
		code = matchAll(c, flag.Arg(0))
	} else {
		code = matchPair(c, flag.Args(), *overlay)
	}
	c.Close()
	os.Exit(code)
}

func matchPair(c *container.Container, args []string, overlay string) int {
	edgeA, err := entity.ParseEdgeName(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.ExitUsage
	}
	edgeB, err := entity.ParseEdgeName(args[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.ExitUsage
	}
	a := entity.EdgeRef{PieceID: args[0], Edge: edgeA}
	b := entity.EdgeRef{PieceID: args[1], Edge: edgeB}

	ctx := context.Background()
	var m *entity.EdgeMatch
	if overlay != "" {
		var img []byte
		m, img, err = c.MatchService.CompareEdges(ctx, a, b)
		if err == nil {
			err = os.WriteFile(overlay, img, 0o644)
		}
	} else {
		m, err = c.MatchService.MatchEdges(ctx, a, b)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.GetExitCode(err)
	}

	printMatch(*m)
	return apperrors.ExitOK
}

func matchAll(c *container.Container, id string) int {
	ms, err := c.MatchService.MatchAll(context.Background(), id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.GetExitCode(err)
	}
	if len(ms) == 0 {
		fmt.Println("No in/out edge pairs to compare.")
	}
	for _, m := range ms {
		printMatch(m)
	}
	return apperrors.ExitOK
}

func printMatch(m entity.EdgeMatch) {
	verdict := "no match"
	if m.Result.Match {
		verdict = "MATCH"
	}
	fmt.Printf("%s (in) <-> %s (out)\tcoupling %.2f\t%s %.2f\t%s\n",
		m.In, m.Out, m.Result.CouplingDistance, m.Result.Secondary, m.Result.SecondaryDistance, verdict)
	for _, w := range m.Warnings {
		fmt.Printf("\twarning: %s\n", w)
	}
}
