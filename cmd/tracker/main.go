package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	tracker "github.com/harrisonbromage/docker-stats-tracker/docker_stats_tracker"
	"github.com/harrisonbromage/docker-stats-tracker/dockerhub"
	"github.com/harrisonbromage/docker-stats-tracker/gitpublish"
	"github.com/harrisonbromage/docker-stats-tracker/ledger"
	"github.com/harrisonbromage/docker-stats-tracker/logger"
)

const Version = "0.1.0"

// EnvAutomation marks the automation context in which the updated ledger is
// committed and pushed back to the repository.
const EnvAutomation = "GITHUB_ACTIONS"

func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment variables")
	}
}

// printUsage prints the complete usage information including flags and environment variables
func printUsage() {
	// Print standard flag usage
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	flag.PrintDefaults()

	// Print logger environment variables
	fmt.Fprintln(flag.CommandLine.Output(), "\nLogger environment variables:")
	loggerEnvVars := logger.GetEnvVarsHelp()
	for _, v := range loggerEnvVars {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-20s %s\n", v.Name, v.Description)
	}

	// Print tracker environment variables
	trackerEnvVars := []struct {
		Name        string
		Description string
	}{
		{tracker.EnvProjects, `JSON array of {"username":..,"repository":..} pairs to track (required)`},
		{EnvAutomation, "When set, commit and push the updated ledger after a successful run"},
	}

	fmt.Fprintln(flag.CommandLine.Output(), "\nTracker environment variables:")
	for _, v := range trackerEnvVars {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-20s %s\n", v.Name, v.Description)
	}
}

func main() {
	flag.Usage = printUsage

	// Define command-line flags for the tracker (not handled by the logger config)
	csvFlag := flag.String("csv", "", "Path of the ledger CSV file (default: "+ledger.DefaultPath+")")
	baseURLFlag := flag.String("base_url", "", "Docker Hub API base URL (default: "+dockerhub.DefaultBaseURL+")")
	publishFlag := flag.Bool("publish", false, "Commit and push the updated ledger even outside the automation context")
	dryRunFlag := flag.Bool("dry_run", false, "If set, perform a dry run (fetch and print counts, no ledger write or publish)")

	// Parse all flags
	flag.Parse()

	// Now load config which will use the parsed flag values
	cfg, err := logger.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading logger config: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	log, err := logger.NewHybridLogger(*cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}()

	fmt.Println("Starting Docker Hub stats tracker...")
	log.Info("Docker Hub stats tracker started", "version", Version)

	projects, err := tracker.LoadProjects(os.Getenv(tracker.EnvProjects))
	if err != nil {
		log.Error("Failed to load project configuration", "error", err)
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	opts := []tracker.TrackerOption{
		tracker.WithLogger(log),
		tracker.WithDryRun(*dryRunFlag),
	}
	if os.Getenv(EnvAutomation) != "" || *publishFlag {
		opts = append(opts, tracker.WithPublisher(gitpublish.NewGitPublisher(".")))
	}

	t, err := tracker.NewTracker(projects, *csvFlag, *baseURLFlag, opts...)
	if err != nil {
		log.Error("Failed to create tracker", "error", err)
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	stats, err := t.Run()
	if err != nil {
		log.Error("Application error", "error", err, "stats", stats.String())
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	log.Info("Script completed successfully", "stats", stats.String())
}
