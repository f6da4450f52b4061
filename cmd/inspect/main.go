package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tsudoi/convosync/internal/conversations"
	"github.com/tsudoi/convosync/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file       = flag.String("file", "", "path to the exported conversations JSON archive")
		showSchema = flag.Bool("schema", false, "print detected schema details")
		showStats  = flag.Bool("stats", false, "parse the archive and print statistics")
	)
	flag.Parse()

	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	logger := logging.New(os.Getenv("LOG_LEVEL"))
	parser := conversations.NewParser(nil, logger)

	info, err := os.Stat(*file)
	if err != nil {
		return err
	}
	fmt.Printf("file: %s (%.1f KB)\n", *file, float64(info.Size())/1024)

	ok, issues := parser.ValidateStructure(*file)
	if ok {
		fmt.Println("structure: ok")
	} else {
		fmt.Println("structure: issues found")
		for _, issue := range issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	if *showSchema {
		schema := parser.DetectSchema(*file)
		fmt.Printf("root type: %s\n", schema.RootType)
		if len(schema.SampleKeys) > 0 {
			fmt.Printf("conversation keys: %v\n", schema.SampleKeys)
		}
		if schema.MessageKey != "" {
			fmt.Printf("message container: %s\n", schema.MessageKey)
		}
		if len(schema.SampleMessageKeys) > 0 {
			fmt.Printf("message keys: %v\n", schema.SampleMessageKeys)
		}
		fmt.Printf("estimated conversations: %d\n", schema.EstimatedConversations)
	}

	if *showStats {
		convs, err := parser.Parse(*file)
		if err != nil {
			return err
		}
		stats := conversations.Stats(convs)
		fmt.Printf("conversations: %d\n", stats.TotalConversations)
		fmt.Printf("messages: %d (avg %.1f per conversation)\n", stats.TotalMessages, stats.AverageMessages)
		if stats.Earliest != nil && stats.Latest != nil {
			fmt.Printf("date range: %s to %s\n",
				stats.Earliest.Format("2006-01-02"), stats.Latest.Format("2006-01-02"))
		}
		fmt.Println("topics:")
		for _, topic := range conversations.Topics() {
			if n := stats.TopicDistribution[topic]; n > 0 {
				fmt.Printf("  %s: %d\n", topic, n)
			}
		}
	}

	if !ok {
		return fmt.Errorf("archive has structural issues")
	}
	return nil
}
