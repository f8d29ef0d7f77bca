package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cute-omega/video-cut/lib"
	"github.com/spf13/cobra"
)

var cutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Cut a time range from a video with ffmpeg",
	Long: `Extract a time range from a source video using ffmpeg, automatically
selecting the best available hardware acceleration.

Fast mode seeks before opening the input: it starts nearly instantly but
cuts on keyframes. Precise mode opens the input first and decodes up to
the cut point: frame-accurate, re-encoded at a bitrate matched to the
source (HEVC by default, H.264+AAC in an .mp4 with --mp4).`,
	RunE: runCut,
}

var (
	cutInput    string
	cutStart    string
	cutDuration string
	cutMode     string
	cutOutput   string
	cutMP4      bool
	cutDryRun   bool
	cutFFmpeg   string
	cutConfig   string
	cutVerbose  bool
)

func init() {
	cutCmd.Flags().StringVarP(&cutInput, "input", "i", "", "Input video file (required)")
	cutCmd.Flags().StringVarP(&cutStart, "start", "s", "", "Start time, HH:MM:SS or seconds (required)")
	cutCmd.Flags().StringVarP(&cutDuration, "duration", "t", "", "Duration to keep, same format as start")
	cutCmd.Flags().StringVarP(&cutMode, "mode", "m", "fast", "Cut mode: fast or precise")
	cutCmd.Flags().StringVarP(&cutOutput, "output", "o", "", "Output file (default derives from input and start)")
	cutCmd.Flags().BoolVar(&cutMP4, "mp4", false, "Compatibility output: H.264 + AAC in an .mp4 container")
	cutCmd.Flags().BoolVarP(&cutDryRun, "dry-run", "n", false, "Print the ffmpeg command without running it")
	cutCmd.Flags().StringVar(&cutFFmpeg, "ffmpeg", "", "Path to the ffmpeg binary (default from config)")
	cutCmd.Flags().StringVar(&cutConfig, "config", "", "Path to config file")
	cutCmd.Flags().BoolVarP(&cutVerbose, "verbose", "v", false, "Enable verbose logging")

	cutCmd.MarkFlagRequired("input")
	cutCmd.MarkFlagRequired("start")
}

func runCut(cmd *cobra.Command, args []string) error {
	setupLogging(cutVerbose)

	mode, err := lib.ParseMode(cutMode)
	if err != nil {
		return err
	}

	env, err := setupEnvironment(cutConfig, cutFFmpeg)
	if err != nil {
		return err
	}
	if env.FFmpegPath == "" || !lib.EngineRunnable(env.FFmpegPath) {
		return fmt.Errorf("ffmpeg not found at %q; make sure it is on PATH or set --ffmpeg", env.FFmpegPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("Received signal, stopping", "signal", sig)
		cancel()
	}()

	cutter := &lib.Cutter{
		Request: lib.CutRequest{
			InputPath:  cutInput,
			Start:      cutStart,
			Duration:   cutDuration,
			Mode:       mode,
			OutputPath: cutOutput,
			CompatMP4:  cutMP4,
			DryRun:     cutDryRun,
		},
	}

	if err := cutter.Run(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			slog.Info("Cut was cancelled")
			return nil
		}
		return err
	}
	return nil
}

// setupEnvironment loads settings, wires the environment cache, and
// establishes the active environment (cache -> validate -> probe -> persist).
func setupEnvironment(configFile, ffmpegOverride string) (lib.Environment, error) {
	settings, err := lib.LoadSettings(configFile)
	if err != nil {
		return lib.Environment{}, fmt.Errorf("failed to load settings: %w", err)
	}

	ffmpegPath := settings.FFmpegPath
	if ffmpegOverride != "" {
		ffmpegPath = ffmpegOverride
	}

	lib.ConfigureEnvironmentCache(lib.EnvironmentCache{Path: settings.CacheFile})
	return lib.InitEnvironment(ffmpegPath, settings.FFprobePath), nil
}
