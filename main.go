// cipsline processes close-interval pipeline-potential surveys: it aligns
// survey rows to a known centerline (or a configured manual span), cleans the
// two voltage channels, merges auxiliary anomaly records, and writes the
// corrected table plus an audit log of everything the run did.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cathodic/cipsline/report"
	"github.com/cathodic/cipsline/survey"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	surveyFile     = flag.String("survey", "", "Path to the survey CSV (required)")
	auxFile        = flag.String("aux", "", "Path to an auxiliary annotation CSV (optional)")
	centerlineFile = flag.String("centerline", "", "Path to a centerline GeoJSON file (optional; manual stationing without it)")
	configFile     = flag.String("config", "", "Path to a YAML configuration file (defaults apply without it)")
	outputFile     = flag.String("output", "cips_processed.csv", "Output CSV path")
	svgFile        = flag.String("svg", "", "Also write a potential-profile chart as SVG")
	pngFile        = flag.String("png", "", "Also write a potential-profile chart as PNG")
	dumpConfig     = flag.String("dump-config", "", "Write the default configuration YAML to this path and exit")

	// Common overrides so a one-off run does not need a config file.
	threshold = flag.Float64("threshold", 0, "Override spike sensitivity threshold (mV)")
	window    = flag.Int("window", 0, "Override spike detection window (odd, >= 3)")
	pkStart   = flag.Float64("pk-start", 0, "Override manual-mode start station (m)")
	pkEnd     = flag.Float64("pk-end", 0, "Override manual-mode end station (m)")
)

func main() {
	flag.Parse()
	fmt.Printf("cipsline version: %s\n", Version)

	if *dumpConfig != "" {
		if err := survey.SaveConfig(*dumpConfig, survey.DefaultConfig()); err != nil {
			log.Fatalf("[CONFIG] %v", err)
		}
		log.Printf("[CONFIG] wrote defaults to %s", *dumpConfig)
		return
	}

	if *surveyFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := loadConfig()
	in := loadInput()

	res, err := survey.NewPipeline(cfg).Run(in)
	printRunLog(res.Log)
	if err != nil {
		log.Fatalf("[PIPELINE] run failed: %v", err)
	}
	log.Printf("[PIPELINE] processed %d rows in %s mode", len(res.Points), res.Mode)

	writeOutputs(res)
}

// loadConfig layers CLI overrides onto the file (or default) configuration
// and re-validates, since overrides bypass the loader's checks.
func loadConfig() *survey.Config {
	cfg := survey.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = survey.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("[CONFIG] %v", err)
		}
	}
	if *threshold > 0 {
		cfg.Cleaning.SpikeThreshold = *threshold
	}
	if *window > 0 {
		cfg.Cleaning.DetectionWindow = *window
	}
	if *pkStart != 0 || *pkEnd != 0 {
		cfg.Manual.StartStation = *pkStart
		cfg.Manual.EndStation = *pkEnd
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	return cfg
}

func loadInput() survey.Input {
	var in survey.Input

	f, err := os.Open(*surveyFile)
	if err != nil {
		log.Fatalf("[INPUT] opening survey table: %v", err)
	}
	defer f.Close()
	in.Survey, err = survey.ReadSurveyCSV(f)
	if err != nil {
		log.Fatalf("[INPUT] %v", err)
	}
	log.Printf("[INPUT] read %d survey rows from %s", in.Survey.Len(), *surveyFile)

	if *auxFile != "" {
		af, err := os.Open(*auxFile)
		if err != nil {
			log.Fatalf("[INPUT] opening auxiliary table: %v", err)
		}
		defer af.Close()
		in.Annotations, err = survey.ReadAuxCSV(af)
		if err != nil {
			log.Fatalf("[INPUT] %v", err)
		}
		log.Printf("[INPUT] read %d auxiliary rows from %s", len(in.Annotations.Rows), *auxFile)
	}

	if *centerlineFile != "" {
		data, err := os.ReadFile(*centerlineFile)
		if err != nil {
			log.Fatalf("[INPUT] reading centerline: %v", err)
		}
		in.Centerline, err = survey.ParseCenterlineGeoJSON(data)
		if err != nil {
			log.Fatalf("[INPUT] %v", err)
		}
		log.Printf("[INPUT] read centerline with %d feature(s) from %s", len(in.Centerline.Features), *centerlineFile)
	}

	return in
}

func printRunLog(rl *survey.RunLog) {
	for _, e := range rl.Entries() {
		log.Printf("[%s] %s", e.Level, e.Message)
	}
}

func writeOutputs(res *survey.Result) {
	out, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("[OUTPUT] creating %s: %v", *outputFile, err)
	}
	defer out.Close()
	if err := report.WriteCSV(out, res); err != nil {
		log.Fatalf("[OUTPUT] %v", err)
	}
	log.Printf("[OUTPUT] wrote processed table to %s", *outputFile)

	if *svgFile == "" && *pngFile == "" {
		return
	}
	pr := report.NewProfileRenderer(res.Points)
	if *svgFile != "" {
		f, err := os.Create(*svgFile)
		if err != nil {
			log.Fatalf("[OUTPUT] creating %s: %v", *svgFile, err)
		}
		defer f.Close()
		if err := pr.RenderToSVG(f); err != nil {
			log.Fatalf("[OUTPUT] rendering SVG: %v", err)
		}
		log.Printf("[OUTPUT] wrote profile chart to %s", *svgFile)
	}
	if *pngFile != "" {
		f, err := os.Create(*pngFile)
		if err != nil {
			log.Fatalf("[OUTPUT] creating %s: %v", *pngFile, err)
		}
		defer f.Close()
		if err := pr.RenderToPNG(f); err != nil {
			log.Fatalf("[OUTPUT] rendering PNG: %v", err)
		}
		log.Printf("[OUTPUT] wrote profile chart to %s", *pngFile)
	}
}
