package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/heycli/hey/client"
	"github.com/heycli/hey/conversation"
	"github.com/heycli/hey/flow"
	"github.com/heycli/hey/highlight"
	"github.com/heycli/hey/ui"
	"github.com/heycli/hey/utils"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	model        string
	theme        string
	width        int
	promptPath   string
	enterREPL    bool
	loadFile     string
	noHighlight  bool
	noColor      bool
	animations   bool
	systemPrompt string

	themes = highlight.NewStore()

	rootCmd = &cobra.Command{
		Use:   "hey [MESSAGE...]",
		Short: "Chat with a language model in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nChat with a language model in your terminal, %s as it streams in.", keyword("highlighted")),
		),
		Example:          paragraph("hey\nhey how do I reverse a slice in go\nhey -r -m gpt-4o-mini explain this error\nhey --load ~/notes/chat.json"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("Could not read config file %s: %w", configFile, err)
		}
	}

	// grab config values from Viper
	model = viper.GetString("model")
	width = viper.GetInt("wrap_width")
	enterREPL = viper.GetBool("enter_repl")
	animations = viper.GetBool("animations")

	if width < 0 {
		return fmt.Errorf("Invalid width: %d", width)
	}
	if model == "" {
		return errors.New("No model configured")
	}

	// user themes may shadow the built-in ones
	if dir := viper.GetString("themes_dir"); dir != "" {
		if err := themes.LoadDir(utils.ExpandPath(dir)); err != nil {
			log.Warn("Could not load all themes", "dir", dir, "err", err)
		}
	}
	theme = viper.GetString("theme")
	if !themes.Has(theme) {
		return fmt.Errorf("Specified theme does not exist: %s", theme)
	}

	systemPrompt = viper.GetString("system_prompt")
	if promptPath != "" {
		b, err := os.ReadFile(utils.ExpandPath(promptPath))
		if err != nil {
			return fmt.Errorf("Could not read system prompt: %w", err)
		}
		systemPrompt = strings.TrimSpace(string(b))
	}
	return nil
}

// settingsFromViper reads the settings that can change while the REPL runs.
func settingsFromViper() ui.Settings {
	return ui.Settings{
		Theme:        viper.GetString("theme"),
		Highlighting: viper.GetBool("syntax_highlighting") && !noHighlight,
		Colors:       viper.GetBool("ansi_colors") && !noColor,
		Animations:   viper.GetBool("animations"),
		WrapWidth:    viper.GetInt("wrap_width"),
	}
}

func execute(cmd *cobra.Command, args []string) error {
	clientEnv, err := env.ParseAs[client.Env]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %v", err)
	}
	c, err := client.NewClient(clientEnv)
	if err != nil {
		return err
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.Settings = settingsFromViper()
	cfg.SystemPrompt = systemPrompt
	cfg.Model = model
	cfg.MaxTokens = viper.GetInt("max_tokens")
	cfg.Greetings = viper.GetBool("greetings")
	cfg.ConversationsFolder = viper.GetString("conversations_folder")
	cfg.HistoryFile = utils.ExpandPath(viper.GetString("history_file"))

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	opts := []ui.Option{ui.WithOutput(os.Stdout, isTTY)}
	if loadFile != "" {
		path := utils.ExpandPath(loadFile)
		conv, err := conversation.Load(path)
		if err != nil {
			return err
		}
		opts = append(opts, ui.WithConversation(conv, path))
	}

	session, err := ui.NewSession(cfg, c, themes, opts...)
	if err != nil {
		return err
	}
	watchConfig(session)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if len(args) > 0 {
		err := session.Ask(ctx, strings.Join(args, " "))
		var se *flow.StreamError
		if errors.As(err, &se) {
			// the session has printed it already
			cmd.SilenceErrors = true
		}
		if err != nil || !enterREPL {
			return err
		}
	} else if loadFile != "" {
		if err := session.PrintHistory(ctx); err != nil {
			return err
		}
	}

	return session.Run(ctx)
}

// watchConfig hands edits of the config file to a running session.
func watchConfig(s *ui.Session) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("Configuration changed", "path", e.Name, "op", e.Op.String())
		s.UpdateSettings(settingsFromViper())
	})
	viper.WatchConfig()
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&model, "model", "m", "", "model to talk to")
	rootCmd.PersistentFlags().StringVarP(&theme, "theme", "t", highlight.DefaultTheme, "highlighting theme")
	rootCmd.Flags().IntVarP(&width, "width", "w", 0, "word-wrap at width, 0 to disable")
	rootCmd.Flags().StringVarP(&promptPath, "prompt-path", "p", "", "read the system prompt from a file")
	rootCmd.Flags().BoolVarP(&enterREPL, "repl", "r", false, "keep chatting after answering MESSAGE")
	rootCmd.Flags().StringVarP(&loadFile, "load", "l", "", "start from a saved conversation")
	rootCmd.Flags().BoolVar(&noHighlight, "no-highlight", false, "disable syntax highlighting")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	rootCmd.Flags().BoolVarP(&animations, "animations", "a", false, "print replies character by character")

	// Config bindings
	_ = viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("wrap_width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("enter_repl", rootCmd.Flags().Lookup("repl"))
	_ = viper.BindPFlag("animations", rootCmd.Flags().Lookup("animations"))

	viper.SetDefault("system_prompt", conversation.DefaultSystemPrompt)
	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("enter_repl", false)
	viper.SetDefault("animations", false)
	viper.SetDefault("ansi_colors", true)
	viper.SetDefault("syntax_highlighting", true)
	viper.SetDefault("theme", highlight.DefaultTheme)
	viper.SetDefault("wrap_width", 100)
	viper.SetDefault("greetings", true)
	viper.SetDefault("conversations_folder", "~/.local/share/hey/conversations")
	viper.SetDefault("themes_dir", filepath.Join(filepath.Dir(defaultConfigFile()), "themes"))
	if dir, err := gap.NewScope(gap.User, "hey").DataPath("history"); err == nil {
		viper.SetDefault("history_file", dir)
	}

	rootCmd.AddCommand(configCmd, manCmd, themesCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "hey")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "hey")}, dirs...)
	}

	if c := os.Getenv("HEY_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("hey")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("hey")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "hey.toml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
