package main

import (
	"os"

	"github.com/cute-omega/video-cut/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "video-cut",
		Short: "Cut time ranges from videos with hardware-accelerated ffmpeg",
		Long: `video-cut extracts a time range from a source video using ffmpeg.
It probes the installed ffmpeg build for hardware acceleration (NVENC,
AMF, Quick Sync, VAAPI, VideoToolbox), caches the result, and builds the
best encoder/decoder combination for each cut.`,
		SilenceUsage: true,
	}

	cmd.AddCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
