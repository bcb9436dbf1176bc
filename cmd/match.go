package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/resumatch/resumatch/internal/jobs"
	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowSkills = "Show matched and missing skills"
	PromptDumpToFile = "Dump listings to file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank job listings against the skills extracted from an analyzed resume",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("record", "r", "", "record id to match against (default is the latest completed analysis)")
	matchCmd.Flags().StringP("location", "l", "", "location to search jobs in")
	matchCmd.Flags().IntP("page", "p", 1, "result page to fetch from the search backend")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked listings and exit without the action prompt")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	recordStore, err := newStore(config)
	if err != nil {
		logg.Fatal("creating record store", zap.Error(err))
	}

	manager := resume.NewManager(recordStore, nil, logg)

	record, err := manager.Find(ctx, config.Owner, cmd.Flag("record").Value.String())
	if err != nil {
		logg.Fatal("finding resume record",
			zap.Error(err),
			zap.String("hint", "run 'resumatch analyze' first"),
		)
	}

	if record.Status != resume.StatusCompleted {
		logg.Fatal("record has no completed analysis",
			zap.String("record_id", record.ID.String()),
			zap.String("status", string(record.Status)),
		)
	}

	page, _ := strconv.Atoi(cmd.Flag("page").Value.String())
	opts := jobs.Options{
		Location: cmd.Flag("location").Value.String(),
		Page:     page,
	}

	matcher := jobs.NewMatcher(newSearcher(config, logg), jobs.NewSalaryFormatter(config.Region), logg)

	listings, err := matcher.Match(ctx, record, opts)
	if err != nil {
		logg.Fatal("matching listings", zap.Error(err))
	}

	printListings(listings)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		if err := promptAction(listings, logg); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logg.Fatal("exiting", zap.Error(err))
		}
	}
}

func promptAction(listings []*jobs.Listing, logg *zap.Logger) error {
	prompt := promptui.Select{
		Label: "Next action",
		Items: []string{PromptShowSkills, PromptDumpToFile, PromptExit},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptShowSkills:
		for _, listing := range listings {
			fmt.Printf("%s @ %s\n  matched: %v\n  missing: %v\n", listing.Title, listing.Company, listing.MatchedSkills, listing.MissingSkills)
		}
		return nil
	case PromptDumpToFile:
		filename, err := jobs.DumpToTmpFile(listings)
		if err != nil {
			return fmt.Errorf("dump listings to file: %w", err)
		}
		logg.Info("dumping listings to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printListings(listings []*jobs.Listing) {
	fmt.Printf("ranked listings (%d):\n\n", len(listings))
	for i, listing := range listings {
		fmt.Printf("%2d. [%3d%%] %s @ %s\n", i+1, listing.MatchScore, listing.Title, listing.Company)
		if listing.Location != "" {
			fmt.Printf("     location: %s\n", listing.Location)
		}
		if listing.Salary != "" {
			fmt.Printf("     salary: %s\n", listing.Salary)
		}
		if listing.URL != "" {
			fmt.Printf("     url: %s\n", listing.URL)
		}
	}
	fmt.Println()
}
