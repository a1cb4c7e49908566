package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxfolio/internal/config"
)

// runOnce resolves a single command and prints the result.
func runOnce(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("resolving command", zap.String("text", text))
	res := a.dispatcher.Submit(context.Background(), text)

	fmt.Printf("screen: %s\n", res.Screen.ID)
	if res.FocusTarget != "" {
		fmt.Printf("focus:  %s\n", res.FocusTarget)
	}
	if res.Narration != "" {
		fmt.Printf("say:    %s\n", res.Narration)
	}
	if res.Message != "" {
		fmt.Printf("note:   %s\n", res.Message)
	}
	fmt.Println()
	fmt.Print(renderScreen(res.Screen, res.FocusTarget))
	return nil
}
