package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"shireesh.com/starter/internal/answers"
)

const envPrefix = "STARTER"

// newConfig reads the optional config file and STARTER_* environment.
// An explicit file must exist; the default one may be absent.
func newConfig(file string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("output", ".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".starter"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// configAnswers collects answers.* from the config file and the
// STARTER_ANSWERS_<KEY> environment variables.
func configAnswers(v *viper.Viper) answers.Answers {
	out := answers.Answers{}
	for k, val := range v.GetStringMap("answers") {
		out[k] = literal(val)
	}
	// AutomaticEnv only answers Get for known keys, so look the question
	// keys up explicitly.
	for _, k := range []string{
		answers.ProjectName,
		answers.RepoName,
		answers.PythonPackage,
		answers.KedroVersion,
		answers.IncludeExample,
		answers.IncludeExampleData,
	} {
		if val := literal(v.Get("answers." + k)); val != "" {
			out[k] = val
		}
	}
	return out
}

// literal turns a decoded config value back into an answer string. YAML
// booleans come back as bool, so they are mapped onto "yes" and "no".
func literal(val any) string {
	switch val := val.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(val)
	}
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
