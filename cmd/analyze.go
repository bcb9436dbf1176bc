package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Extract text from a resume, run the AI analysis and store the result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("job-description", "D", "", "path to a job description text file to score compatibility against")
}

func analyze(cmd *cobra.Command, resumePath string) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}

	jobDescription := ""
	if path := cmd.Flag("job-description").Value.String(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logg.Fatal("reading job description", zap.Error(err))
		}
		jobDescription = string(data)
	}

	recordStore, err := newStore(config)
	if err != nil {
		logg.Fatal("creating record store", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config, logg)
	if err != nil {
		logg.Fatal("creating analyzer", zap.Error(err))
	}

	// The pipeline owns its upload copy and deletes it when done; the user's
	// original file is never touched.
	uploadPath, err := stageUpload(resumePath)
	if err != nil {
		logg.Fatal("staging upload", zap.Error(err))
	}

	manager := resume.NewManager(recordStore, analyzer, logg)

	record, err := manager.Process(ctx, config.Owner, uploadPath, filepath.Base(resumePath), jobDescription)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if record != nil {
			fields = append(fields, zap.String("record_id", record.ID.String()), zap.String("status", string(record.Status)))
		}
		logg.Fatal("analysis failed", fields...)
	}

	printAnalysis(record)
}

// stageUpload copies the source document into a temp file owned by the
// pipeline (write-once, delete-after-use).
func stageUpload(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "resumatch_upload_*")
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return dst.Name(), nil
}

func printAnalysis(record *resume.Record) {
	analysis := record.Analysis

	fmt.Printf("record: %s\n", record.ID)
	fmt.Printf("match score: %d/100\n\n", analysis.MatchScore)

	if analysis.Summary != "" {
		fmt.Printf("summary: %s\n\n", analysis.Summary)
	}

	printBucket := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("%s:\n", name)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printBucket("found hard skills", analysis.FoundKeywords.HardSkills)
	printBucket("found soft skills", analysis.FoundKeywords.SoftSkills)
	printBucket("found certifications", analysis.FoundKeywords.Certifications)
	printBucket("missing hard skills", analysis.MissingKeywords.HardSkills)
	printBucket("missing soft skills", analysis.MissingKeywords.SoftSkills)
	printBucket("missing certifications", analysis.MissingKeywords.Certifications)

	if len(analysis.ActionableTips) > 0 {
		fmt.Println("tips:")
		for _, tip := range analysis.ActionableTips {
			fmt.Printf("  [%s/%s] %s\n", tip.Priority, tip.Category, tip.Suggestion)
		}
	}
}
