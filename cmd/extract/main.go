package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"trip-planner-service/internal/adapters/extract"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/services"
)

// extract converts an itinerary document (.txt, .md, .pdf, .docx) into the
// JSON seed file read by the server and dbtool.
func main() {
	out := flag.String("o", "", "output file (default stdout)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: extract [-o out.json] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	text, err := extract.File(path)
	if err != nil {
		logger.Fatal("extraction failed", err)
	}

	seed := repositories.DocumentSeed{Paragraphs: services.NormalizeParagraphs(text)}
	if len(seed.Paragraphs) == 0 {
		logger.Fatal("extraction failed", fmt.Errorf("%s contains no text", path))
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		logger.Fatal("encode paragraphs", err)
	}
	data = append(data, '\n')

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Fatal("write output", err)
	}
	logger.Info("paragraphs written", map[string]interface{}{"file": *out, "paragraphs": len(seed.Paragraphs)})
}
