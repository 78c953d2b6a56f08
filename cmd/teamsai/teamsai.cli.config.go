package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-teamsai"
)

// cliConfig is the optional YAML config file.
type cliConfig struct {
	Encoding  string `yaml:"encoding"`
	LogLevel  string `yaml:"log_level"`
	MaxTokens int    `yaml:"max_tokens"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		Encoding: teamsai.DefaultEncoding,
		LogLevel: DefaultLogLevel,
	}
}

// loadConfig reads the YAML config file, then applies TEAMSAI_* variables
// from the process environment or the dotenv file. Process environment wins.
// A missing default .env is ignored; an explicit --env-file must exist.
func loadConfig(configPath, envFile string, envFileExplicit bool) (cliConfig, error) {
	config := defaultCLIConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return config, newCLIError(ExitCodeInputError, ErrMsgConfigLoadFailed, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, newCLIError(ExitCodeInputError, ErrMsgConfigLoadFailed, err)
		}
		if config.MaxTokens < 0 {
			return config, newCLIError(ExitCodeInputError, ErrMsgConfigLoadFailed, errors.New(ErrMsgInvalidMaxTokens))
		}
	}

	if envFile == "" {
		envFile = FlagDefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if envFileExplicit || !errors.Is(err, fs.ErrNotExist) {
			return config, newCLIError(ExitCodeInputError, ErrMsgEnvLoadFailed, err)
		}
		dotenv = nil
	}

	if v := lookupEnv(EnvEncoding, dotenv); v != "" {
		config.Encoding = v
	}
	if v := lookupEnv(EnvLogLevel, dotenv); v != "" {
		config.LogLevel = v
	}
	return config, nil
}

func lookupEnv(key string, dotenv map[string]string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return dotenv[key]
}
