package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yggit",
	Short: "Yggit manages a stack of commits as independent branches",
	Long: `Yggit manages a stack of commits as independent branches.

Each commit of the working branch can be annotated with a push destination and
validation commands. Annotations are stored as git notes, so they follow
commits through rebases and survive history rewrites.

Running a command opens the plan in your editor: one line per commit, followed
by its annotations. Edit the plan, save, quit, and yggit applies it.

`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addPathFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv("YGGIT_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("YGGIT_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.yggit")
		viper.AddConfigPath("/etc/yggit")
		viper.SetConfigName("yggit")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setYggitParams(&yggitFlags)
}
