package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Environment variables that supply defaults for unset flags. They may come
// from the process environment or from a .env file in the working directory.
const (
	envConfig = "RAPOSDA_CONFIG"
	envLog    = "RAPOSDA_LOG"
	envFile   = "RAPOSDA_ENV_FILE"
)

// applyEnvDefaults loads the .env file, if present, and fills --config and
// --log from the environment when they were not given on the command line.
func applyEnvDefaults(cmd *cobra.Command) {
	file := ".env"
	if f := os.Getenv(envFile); f != "" {
		file = f
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("ignoring env file %s: %v", file, err)
	}
	if v := os.Getenv(envConfig); v != "" && !changed(cmd, "config") {
		configPath = v
	}
	if v := os.Getenv(envLog); v != "" && !changed(cmd, "log") {
		logLevel = v
	}
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
