package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vokalize/emotion-detection-service/config"
	"github.com/vokalize/emotion-detection-service/inference"
)

func newDetectCmd() *cobra.Command {
	var configPath string
	var asRecording bool
	cmd := &cobra.Command{
		Use:   "detect <audio-file>",
		Short: "Classify the emotion in a single audio file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(configPath, args[0], asRecording)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&asRecording, "as-recording", false, "truncate over-long clips instead of rejecting them")
	return cmd
}

func runDetect(configPath, audioPath string, asRecording bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return err
	}

	assets, err := inference.LoadAssets(assetConfig(cfg))
	if err != nil {
		return fmt.Errorf("load model assets: %w", err)
	}
	defer assets.Destroy()

	source := SourceUpload
	if asRecording {
		source = SourceRecording
	}

	classifier := NewClassifier(cfg, assets, log)
	result, err := classifier.Classify(context.Background(), data, source)
	if err != nil {
		return err
	}

	fmt.Printf("Emotion: %s\n\n", strings.ToUpper(result.Prediction.Label))
	for _, c := range result.Prediction.Confidences {
		bar := strings.Repeat("#", int(c.Score*40))
		fmt.Printf("%-10s %6.2f%% %s\n", c.Label, c.Score*100, bar)
	}
	return nil
}
