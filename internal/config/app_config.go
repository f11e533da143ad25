package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/erayyap/repodigest/internal/utils"
)

const (
	// LocalConfigFileName is the per-repository configuration file name.
	LocalConfigFileName = ".repodigest.yaml"
	// globalConfigRelativePath locates the user-level configuration under the
	// home directory.
	globalConfigRelativePath = ".config/repodigest/config.yaml"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
// Pointer fields distinguish "unset" from an explicit false or zero.
type ApplicationConfiguration struct {
	Digest DigestConfiguration `mapstructure:"digest"`
	Tree   TreeConfiguration   `mapstructure:"tree"`
}

// DigestConfiguration defines defaults for the digest command.
type DigestConfiguration struct {
	Output        string             `mapstructure:"output"`
	Clipboard     *bool              `mapstructure:"clipboard"`
	MaxFileSizeMB *float64           `mapstructure:"max_file_size_mb"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
	Paths         PathConfiguration  `mapstructure:"paths"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	Paths PathConfiguration `mapstructure:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures pattern sources consulted during traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	Include       []string `mapstructure:"include"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
}

// LoadApplicationConfiguration loads configuration from the user-level file
// and the working directory's local file, local values overriding global ones.
// Missing files are not an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(filepath.Join(homeDirectory, filepath.FromSlash(globalConfigRelativePath)))
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, LocalConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	merged.Digest.Paths.Exclude = dedupedOrNil(merged.Digest.Paths.Exclude)
	merged.Digest.Paths.Include = dedupedOrNil(merged.Digest.Paths.Include)
	merged.Tree.Paths.Exclude = dedupedOrNil(merged.Tree.Paths.Exclude)
	merged.Tree.Paths.Include = dedupedOrNil(merged.Tree.Paths.Include)

	return merged, nil
}

func loadConfigurationFromPath(configurationPath string) (ApplicationConfiguration, error) {
	if configurationPath == "" {
		return ApplicationConfiguration{}, nil
	}
	fileInformation, statError := os.Stat(configurationPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", configurationPath, statError)
	}
	if fileInformation.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", configurationPath)
	}

	configurationReader := viper.New()
	configurationReader.SetConfigFile(configurationPath)
	if readError := configurationReader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", configurationPath, readError)
	}
	var loadedConfiguration ApplicationConfiguration
	if decodeError := configurationReader.Unmarshal(&loadedConfiguration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", configurationPath, decodeError)
	}
	return loadedConfiguration, nil
}

// Merge overlays override onto the receiver, returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Digest = result.Digest.merge(override.Digest)
	result.Tree.Paths = result.Tree.Paths.merge(override.Tree.Paths)
	return result
}

func (configuration DigestConfiguration) merge(override DigestConfiguration) DigestConfiguration {
	result := configuration
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.MaxFileSizeMB != nil {
		result.MaxFileSizeMB = cloneFloat(override.MaxFileSizeMB)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	return result
}

// dedupedOrNil deduplicates a pattern list, keeping absent lists nil so an
// unconfigured run stays the zero configuration.
func dedupedOrNil(patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}
	return utils.DeduplicatePatterns(patterns)
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
