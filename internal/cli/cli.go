// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erayyap/repodigest/internal/config"
	"github.com/erayyap/repodigest/internal/digest"
	"github.com/erayyap/repodigest/internal/ignore"
	"github.com/erayyap/repodigest/internal/reader"
	"github.com/erayyap/repodigest/internal/services/clipboard"
	"github.com/erayyap/repodigest/internal/tokenizer"
	"github.com/erayyap/repodigest/internal/tree"
	"github.com/erayyap/repodigest/internal/utils"
	"github.com/erayyap/repodigest/internal/walker"
)

const (
	excludeFlagName     = "exclude"
	excludeFlagShort    = "e"
	includeFlagName     = "include"
	includeFlagShort    = "i"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	maxFileSizeFlagName = "max-file-size"
	outputFlagName      = "output"
	outputFlagShort     = "o"
	copyFlagName        = "copy"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	versionFlagName     = "version"
	configFlagName      = "config"

	versionTemplate = "repodigest version: %s\n"
	defaultPath     = "."

	rootUse              = "repodigest"
	rootShortDescription = "repodigest command line interface"
	rootLongDescription  = `repodigest concatenates a repository's text files into one deterministic digest.
Files and directories are filtered with gitignore-style patterns discovered during
traversal, layered over a built-in default ignore list. Use the digest command to
emit the artifact and the tree command to preview which files it would include.`

	digestUse              = "digest [path]"
	digestAlias            = "d"
	digestShortDescription = "emit the repository digest (" + digestAlias + ")"
	digestLongDescription  = `Walk the repository rooted at path (default ".") and emit the digest artifact:
a header stating the total body line count followed by one delimited block per
included file. Binary and unreadable files appear as fixed placeholder lines.`
	digestUsageExample = `  # Digest the current repository to stdout
  repodigest digest

  # Write the digest to a file, excluding logs
  repodigest digest -e '*.log' -o repodigest.txt .

  # Copy the digest to the clipboard with a token count summary
  repodigest digest --copy --tokens .`

	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "list the files a digest would include (" + treeAlias + ")"
	treeLongDescription  = `Walk the repository rooted at path (default ".") and print the directory
structure of the files a digest would include, without reading their content.`
	treeUsageExample = `  # Preview the included file set
  repodigest tree

  # Preview with an extra exclusion
  repodigest tree -e vendor/ .`

	excludeFlagDescription          = "additional gitignore-syntax exclusion pattern"
	includeFlagDescription          = "restrict files to those matching a pattern (repeatable)"
	disableGitignoreFlagDescription = "do not load .gitignore files"
	disableIgnoreFlagDescription    = "do not load .ignore files"
	maxFileSizeFlagDescription      = "maximum individual file size in MB (0 disables the cap)"
	outputFlagDescription           = "write the digest to a file instead of stdout"
	copyFlagDescription             = "copy the digest to the system clipboard"
	tokensFlagDescription           = "report a token count summary on stderr"
	modelFlagDescription            = "tokenizer model for token counting"
	versionFlagDescription          = "display application version"
	configFlagDescription           = "path to a configuration file"

	defaultTokenizerModelName = "gpt-4o"
	defaultMaxFileSizeMB      = float64(reader.DefaultSizeLimitBytes) / bytesPerMegabyte

	bytesPerMegabyte = 1024 * 1024

	rootIsFileMessageFormat  = "path '%s' is a file; the digest root must be a directory"
	outputCreateErrorFormat  = "create output file %s: %w"
	outputWriteErrorFormat   = "write digest to %s: %w"
	clipboardCopyErrorFormat = "copy digest to clipboard: %w"
	tokenCountErrorFormat    = "count tokens: %w"
	tokenSummaryFormat       = "tokens: %d (model %s)\n"
	outputWrittenFormat      = "digest written to %s\n"
)

// Execute runs the repodigest application.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createDigestCommand(loggerInstance),
		createTreeCommand(loggerInstance),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// pathOptions stores configuration for traversal-related flags.
type pathOptions struct {
	exclusionPatterns []string
	inclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
}

// addPathFlags registers traversal-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, excludeFlagName, excludeFlagShort, nil, excludeFlagDescription)
	command.Flags().StringArrayVarP(&options.inclusionPatterns, includeFlagName, includeFlagShort, nil, includeFlagDescription)
	command.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
}

// createDigestCommand returns the digest subcommand.
func createDigestCommand(loggerInstance *zap.Logger) *cobra.Command {
	var pathConfiguration pathOptions
	var maxFileSizeMB = defaultMaxFileSizeMB
	var outputPath string
	var copyToClipboard bool
	var tokensEnabled bool
	var tokenModel = defaultTokenizerModelName
	var configFilePath string

	digestCommand := &cobra.Command{
		Use:     digestUse,
		Aliases: []string{digestAlias},
		Short:   digestShortDescription,
		Long:    digestLongDescription,
		Example: digestUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}

			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
			if configurationError != nil {
				return configurationError
			}
			digestDefaults := applicationConfiguration.Digest

			if !command.Flags().Changed(maxFileSizeFlagName) && digestDefaults.MaxFileSizeMB != nil {
				maxFileSizeMB = *digestDefaults.MaxFileSizeMB
			}
			if !command.Flags().Changed(outputFlagName) && digestDefaults.Output != "" {
				outputPath = digestDefaults.Output
			}
			if !command.Flags().Changed(copyFlagName) && digestDefaults.Clipboard != nil {
				copyToClipboard = *digestDefaults.Clipboard
			}
			if !command.Flags().Changed(tokensFlagName) && digestDefaults.Tokens.Enabled != nil {
				tokensEnabled = *digestDefaults.Tokens.Enabled
			}
			if !command.Flags().Changed(modelFlagName) && digestDefaults.Tokens.Model != "" {
				tokenModel = digestDefaults.Tokens.Model
			}
			applyPathConfiguration(command, &pathConfiguration, digestDefaults.Paths)

			return runDigest(loggerInstance, rootPath, digestRunOptions{
				paths:           pathConfiguration,
				maxFileSizeMB:   maxFileSizeMB,
				outputPath:      outputPath,
				copyToClipboard: copyToClipboard,
				tokensEnabled:   tokensEnabled,
				tokenModel:      tokenModel,
			})
		},
	}

	addPathFlags(digestCommand, &pathConfiguration)
	digestCommand.Flags().Float64Var(&maxFileSizeMB, maxFileSizeFlagName, defaultMaxFileSizeMB, maxFileSizeFlagDescription)
	digestCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShort, "", outputFlagDescription)
	digestCommand.Flags().BoolVar(&copyToClipboard, copyFlagName, false, copyFlagDescription)
	digestCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	digestCommand.Flags().StringVar(&tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	digestCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	return digestCommand
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(loggerInstance *zap.Logger) *cobra.Command {
	var pathConfiguration pathOptions
	var configFilePath string

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}

			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configFilePath})
			if configurationError != nil {
				return configurationError
			}
			applyPathConfiguration(command, &pathConfiguration, applicationConfiguration.Tree.Paths)

			return runTree(loggerInstance, rootPath, pathConfiguration)
		},
	}

	addPathFlags(treeCommand, &pathConfiguration)
	treeCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	return treeCommand
}

// applyPathConfiguration overlays configuration file defaults onto flags the
// user did not set explicitly.
func applyPathConfiguration(command *cobra.Command, options *pathOptions, configured config.PathConfiguration) {
	if !command.Flags().Changed(excludeFlagName) && len(configured.Exclude) > 0 {
		options.exclusionPatterns = append([]string{}, configured.Exclude...)
	}
	if !command.Flags().Changed(includeFlagName) && len(configured.Include) > 0 {
		options.inclusionPatterns = append([]string{}, configured.Include...)
	}
	if !command.Flags().Changed(noGitignoreFlagName) && configured.UseGitignore != nil {
		options.disableGitignore = !*configured.UseGitignore
	}
	if !command.Flags().Changed(noIgnoreFlagName) && configured.UseIgnoreFile != nil {
		options.disableIgnoreFile = !*configured.UseIgnoreFile
	}
}

// digestRunOptions gathers the resolved digest command settings.
type digestRunOptions struct {
	paths           pathOptions
	maxFileSizeMB   float64
	outputPath      string
	copyToClipboard bool
	tokensEnabled   bool
	tokenModel      string
}

// runDigest builds the digest and delivers it to the selected destinations.
func runDigest(loggerInstance *zap.Logger, rootPath string, options digestRunOptions) error {
	absoluteRoot, rootError := resolveRootDirectory(rootPath)
	if rootError != nil {
		return rootError
	}

	sizeLimitBytes := int64(options.maxFileSizeMB * bytesPerMegabyte)
	if options.maxFileSizeMB <= 0 {
		sizeLimitBytes = -1
	}

	buildResult, buildError := digest.Build(absoluteRoot, digest.Options{
		UseGitignore:    !options.paths.disableGitignore,
		UseIgnoreFile:   !options.paths.disableIgnoreFile,
		ExcludePatterns: trimmedPatterns(options.paths.exclusionPatterns),
		IncludePatterns: trimmedPatterns(options.paths.inclusionPatterns),
		SizeLimitBytes:  sizeLimitBytes,
		Logger:          loggerInstance,
	})
	if buildError != nil {
		return buildError
	}
	digestText := buildResult.Output.RenderString()

	if options.outputPath != "" {
		outputFile, createError := os.Create(options.outputPath)
		if createError != nil {
			return fmt.Errorf(outputCreateErrorFormat, options.outputPath, createError)
		}
		_, writeError := io.WriteString(outputFile, digestText)
		closeError := outputFile.Close()
		if writeError != nil {
			return fmt.Errorf(outputWriteErrorFormat, options.outputPath, writeError)
		}
		if closeError != nil {
			return fmt.Errorf(outputWriteErrorFormat, options.outputPath, closeError)
		}
		fmt.Fprintf(os.Stderr, outputWrittenFormat, options.outputPath)
	} else {
		if _, writeError := io.WriteString(os.Stdout, digestText); writeError != nil {
			return writeError
		}
	}

	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(digestText); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}

	if options.tokensEnabled {
		tokenCounter, resolvedModel, counterError := tokenizer.NewCounter(options.tokenModel)
		if counterError != nil {
			return fmt.Errorf(tokenCountErrorFormat, counterError)
		}
		countResult, countError := tokenizer.CountBytes(tokenCounter, []byte(digestText))
		if countError != nil {
			return fmt.Errorf(tokenCountErrorFormat, countError)
		}
		fmt.Fprintf(os.Stderr, tokenSummaryFormat, countResult.Tokens, resolvedModel)
	}

	return nil
}

// runTree walks the repository without reading file content and prints the
// structure of the files a digest would include.
func runTree(loggerInstance *zap.Logger, rootPath string, options pathOptions) error {
	absoluteRoot, rootError := resolveRootDirectory(rootPath)
	if rootError != nil {
		return rootError
	}

	defaultRuleSet, _ := ignore.CompilePatterns(config.DefaultIgnorePatterns(), config.DefaultRuleSourceName)
	exclusionRuleSet, _ := ignore.CompilePatterns(trimmedPatterns(options.exclusionPatterns), config.ExclusionFlagSourceName)
	inclusionRuleSet, _ := ignore.CompilePatterns(trimmedPatterns(options.inclusionPatterns), config.InclusionFlagSourceName)

	var relativePaths []string
	_, walkError := walker.Walk(absoluteRoot, walker.Options{
		UseGitignore:  !options.disableGitignore,
		UseIgnoreFile: !options.disableIgnoreFile,
		BaseRules:     ignore.NewStack(defaultRuleSet, exclusionRuleSet),
		IncludeRules:  inclusionRuleSet,
		Logger:        loggerInstance,
	}, func(includedEntry walker.Entry) error {
		relativePaths = append(relativePaths, includedEntry.RelativePath)
		return nil
	})
	if walkError != nil {
		return walkError
	}

	fmt.Print(tree.RenderListing(filepath.Base(absoluteRoot), relativePaths))
	return nil
}

// resolveRootDirectory converts rootPath to absolute form and validates that
// it exists and is a directory.
func resolveRootDirectory(rootPath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return "", fmt.Errorf("abs failed for '%s': %w", rootPath, absoluteError)
	}
	cleanPath := filepath.Clean(absolutePath)
	fileInformation, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return "", fmt.Errorf("%w: %s", walker.ErrRootNotFound, rootPath)
		}
		return "", fmt.Errorf("%w: %s: %v", walker.ErrRootNotReadable, rootPath, statError)
	}
	if !fileInformation.IsDir() {
		return "", fmt.Errorf(rootIsFileMessageFormat, rootPath)
	}
	return cleanPath, nil
}

// trimmedPatterns removes blank entries from flag-provided pattern lists.
func trimmedPatterns(patterns []string) []string {
	result := make([]string, 0, len(patterns))
	for _, patternValue := range patterns {
		trimmedPattern := strings.TrimSpace(patternValue)
		if trimmedPattern != "" {
			result = append(result, trimmedPattern)
		}
	}
	return utils.DeduplicatePatterns(result)
}
