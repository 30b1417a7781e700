package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/config"
	"github.com/mgpai22/capseek/internal/logging"
	"github.com/mgpai22/capseek/internal/youtube"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config

	// shared by every fetch in this process so repeated URLs hit the LRU
	captionSource youtube.Source
)

var rootCmd = &cobra.Command{
	Use:   "capseek",
	Short: "Find where something is said in a video",
	Long: `capseek fetches the captions of a video and fuzzy-searches them,
returning the moments whose caption text best matches a phrase.

Captions come from the video platform (manual or automatic tracks) or,
for local media, from an AI transcription of the audio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if lang, _ := cmd.Flags().GetString("language"); lang != "" {
			loaded.Language = lang
		}
		cfg = loaded
		captionSource = newCaptionSource()

		logger.Debugw("Configuration loaded",
			"path", configPath,
			"language", cfg.Language,
			"cache_size", cfg.CacheSize,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/capseek/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Caption language code (e.g., en, es, fr)")
}

// caption source for the loaded config: yt-dlp lookup, HTTP download, LRU memo
func newCaptionSource() youtube.Source {
	fetcher := youtube.NewFetcher(
		youtube.NewYtDlp(cfg.YtDlp.Path, cfg.YtDlp.ExtraArgs),
		&http.Client{},
		youtube.Options{
			Language:  cfg.Language,
			Timeout:   cfg.Fetch.Timeout,
			MaxBytes:  cfg.Fetch.MaxBytes,
			UserAgent: cfg.Fetch.UserAgent,
		},
		logger,
	)
	return youtube.NewCache(cfg.CacheSize, fetcher, logger)
}
