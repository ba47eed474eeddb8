package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/alias/internal/config"
)

// cli holds state shared by every command of one root.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd(version string) *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "aliasrun",
		Short: "Run Lua scripts with function aliases",
		Long: `aliasrun loads a Lua script, installs the aliases it declares with
alias(...) and those listed in an optional manifest, then calls the
script's entry function and runs delayed calls until none are left.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: ./.aliasrun.toml or ~/.config/aliasrun/config.toml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")
	root.PersistentFlags().String("namer", "", "relocation namer (counter, uuid)")
	_ = c.v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	_ = c.v.BindPFlag(config.KeyLogFormat, root.PersistentFlags().Lookup("log-format"))
	_ = c.v.BindPFlag(config.KeyNamer, root.PersistentFlags().Lookup("namer"))

	root.AddCommand(
		c.newRunCmd(),
		c.newWatchCmd(),
		c.newCheckCmd(),
		newVersionCmd(version),
	)
	return root
}

// commandKeys maps command-local flags to setting keys. They are bound
// when the command runs, since run and watch share keys.
var commandKeys = map[string]string{
	"manifest": config.KeyManifest,
	"entry":    config.KeyEntry,
	"timeout":  config.KeyTimeout,
	"debounce": config.KeyDebounce,
}

// settings loads settings for a command, with a positional script
// argument taking precedence over every other layer.
func (c *cli) settings(cmd *cobra.Command, args []string) (config.Settings, error) {
	for name, key := range commandKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return config.Settings{}, err
			}
		}
	}

	s, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return config.Settings{}, err
	}
	if len(args) > 0 {
		s.Script = args[0]
	}
	return s, nil
}

// addScriptFlags adds the flags shared by run and watch.
func addScriptFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("manifest", "m", "", "alias manifest (yaml, toml, json or jsonc)")
	cmd.Flags().StringP("entry", "e", "", "global function to call after loading (default main)")
}
