package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"debatedojo/config"
	"debatedojo/internal/quota"
	"debatedojo/services"

	"github.com/joho/godotenv"
)

// promptcheck runs one full debate turn against the live provider and prints
// the parsed result. Handy for eyeballing prompt or parser changes without
// standing up the server. Quota enforcement is disabled.
func main() {
	theme := flag.String("theme", "Remote work", "debate topic")
	message := flag.String("message", "It boosts productivity because people avoid commuting.", "user argument")
	style := flag.String("style", "teacher", "opponent style: kind, teacher, devil")
	flag.Parse()

	godotenv.Load()

	rootPath, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting the current working directory: %v", err)
	}

	configPath := filepath.Join(rootPath, "config", "config.yml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	client, err := services.NewCompletionClientFromConfig(cfg)
	if err != nil {
		log.Fatalf("Error building completion client: %v", err)
	}

	svc := services.NewDebateService(client, quota.NewStore(nil), cfg)

	result, err := svc.RunTurn(context.Background(), services.TurnRequest{
		Theme:     *theme,
		Message:   *message,
		Style:     *style,
		UserToken: "promptcheck",
	})
	if err != nil {
		log.Fatalf("Turn failed: %v", err)
	}

	fmt.Println("Reply:")
	fmt.Println(result.Reply)
	fmt.Println()
	fmt.Println("Scores:")
	for _, category := range services.ScoreCategories {
		fmt.Printf("  %s: %d/5\n", category, result.Scores[category])
	}
	fmt.Printf("Feedback: %s\n", result.Feedback)
}
