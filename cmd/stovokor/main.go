// Command stovokor obfuscates XML files by replacing the values of configured
// elements with generated ones.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"stovokor"
	"stovokor/internal/log"
	"stovokor/xmlconv"
)

func setupLogging(logLevel, logFormat string) {
	programLevel, err := log.ParseLevel(logLevel)
	if err != nil {
		Exit(fmt.Sprintf("Error parsing log level: %s", err))
	}

	logger, err := log.New(programLevel, logFormat)
	if err != nil {
		Exit(fmt.Sprintf("Error creating logger: %s", err))
	}
	slog.SetDefault(logger)
}

func Exit(msg string) {
	fmt.Println(msg)
	os.Exit(1)
}

func main() {
	input := flag.String("i", "", "input file or directory")
	output := flag.String("o", "", "output file or directory (optional)")
	rulesPath := flag.String("c", "", "json rules file")
	override := flag.String("override", "", "json string overriding the rules from file")
	flag.Parse()
	if *input == "" || *rulesPath == "" {
		Exit("Both -i and -c are required, see -h")
	}

	// Read config from env, .env values included
	_ = godotenv.Load()
	var cfg stovokor.Config
	if err := envconfig.Process("", &cfg); err != nil {
		Exit(err.Error())
	}

	setupLogging(cfg.LogLevel, cfg.LogFormat)
	slog.Info("starting...", "version", versioninfo.Short())

	rules, err := stovokor.ParseRules(*rulesPath, *override)
	if err != nil {
		log.Fatal(slog.Default(), "Failed to parse rules", "error", err)
	}

	converter := xmlconv.New(rules)
	if err := converter.ConvertPath(*input, *output); err != nil {
		log.Fatal(slog.Default(), "Conversion failed", "error", err)
	}

	slog.Info("All files converted. Have a nice day // Hyvää päivän jatkoa // Miłego dnia")
}
