// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repopac/repopac/internal/config"
	"github.com/repopac/repopac/internal/render"
	"github.com/repopac/repopac/internal/report"
	"github.com/repopac/repopac/internal/services/clipboard"
	"github.com/repopac/repopac/internal/tokenizer"
	"github.com/repopac/repopac/internal/types"
	"github.com/repopac/repopac/internal/utils"
)

const (
	versionFlagName   = "version"
	clipboardFlagName = "clipboard"
	summaryFlagName   = "summary"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	configFlagName    = "config"

	versionFlagShorthand = "v"

	versionTemplate = "repopac version: %s\n"
	defaultPath     = "."

	rootUse              = "repopac [paths...]"
	rootShortDescription = "package repository content into one Markdown report"
	rootLongDescription  = `repopac walks directories and files and emits a single Markdown document
describing the repository: its location, version-control presence, structure,
and the contents of every regular file (truncated past 16 KiB).
Targets default to the current directory when none are given.`
	rootUsageExample = `  # Package the current directory
  repopac

  # Package two projects into one report
  repopac ./service ./library

  # Append a summary with token counts and copy the report to the clipboard
  repopac --tokens --clipboard .`

	versionFlagDescription   = "display application version"
	clipboardFlagDescription = "copy the report to the system clipboard"
	summaryFlagDescription   = "append a summary section for rendered files"
	tokensFlagDescription    = "include token counts in the summary"
	modelFlagDescription     = "tokenizer model used for token counting"
	configFlagDescription    = "path to an application configuration file"

	defaultTokenizerModelName = "gpt-4o"

	warningInvalidPathFormat  = "Warning: %s is not a valid directory or file\n"
	warningSkipPathFormat     = "Warning: skipping %s: %v\n"
	warningClipboardFormat    = "Warning: failed to copy report to clipboard: %v\n"
	errorAbsolutePathFormat   = "abs failed for '%s': %w"
	errorWriteReportFormat    = "writing report: %w"
	errorLoadConfigurationFmt = "loading configuration: %w"
	errorInitializeCounterFmt = "initializing tokenizer: %w"
)

// rootOptions stores the flag values for one invocation.
type rootOptions struct {
	showVersion     bool
	copyToClipboard bool
	includeSummary  bool
	countTokens     bool
	tokenizerModel  string
	configFilePath  string
}

// Execute runs the repopac application.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// NewRootCommand builds the root Cobra command writing the report to stdout
// and diagnostics to stderr.
func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(stdout, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			settings, settingsError := resolveSettings(command, options)
			if settingsError != nil {
				return settingsError
			}
			return runReport(stdout, stderr, arguments, settings)
		},
	}

	rootCommand.Flags().BoolVarP(&options.showVersion, versionFlagName, versionFlagShorthand, false, versionFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().BoolVar(&options.includeSummary, summaryFlagName, false, summaryFlagDescription)
	rootCommand.Flags().BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.CompletionOptions.DisableDefaultCmd = true
	return rootCommand
}

// invocationSettings is the effective configuration after merging the
// application configuration file with explicitly set flags.
type invocationSettings struct {
	copyToClipboard bool
	includeSummary  bool
	countTokens     bool
	tokenizerModel  string
}

// resolveSettings overlays flag values onto configuration file defaults.
// A flag wins only when it was set on the command line.
func resolveSettings(command *cobra.Command, options rootOptions) (invocationSettings, error) {
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return invocationSettings{}, fmt.Errorf(errorLoadConfigurationFmt, configurationError)
	}

	settings := invocationSettings{tokenizerModel: defaultTokenizerModelName}
	if configuration.Clipboard != nil {
		settings.copyToClipboard = *configuration.Clipboard
	}
	if configuration.Summary != nil {
		settings.includeSummary = *configuration.Summary
	}
	if configuration.Tokens.Enabled != nil {
		settings.countTokens = *configuration.Tokens.Enabled
	}
	if configuration.Tokens.Model != "" {
		settings.tokenizerModel = configuration.Tokens.Model
	}

	if command.Flags().Changed(clipboardFlagName) {
		settings.copyToClipboard = options.copyToClipboard
	}
	if command.Flags().Changed(summaryFlagName) {
		settings.includeSummary = options.includeSummary
	}
	if command.Flags().Changed(tokensFlagName) {
		settings.countTokens = options.countTokens
	}
	if command.Flags().Changed(modelFlagName) {
		settings.tokenizerModel = options.tokenizerModel
	}
	// Token counts are only visible in the summary section.
	if settings.countTokens {
		settings.includeSummary = true
	}
	return settings, nil
}

// runReport classifies every target, assembles the report segments in order,
// and writes the whole document to stdout as one final write. Missing or
// unusable targets degrade to stderr diagnostics; they never fail the run.
func runReport(stdout io.Writer, stderr io.Writer, targetPaths []string, settings invocationSettings) error {
	renderer := render.NewRenderer(stderr)

	var tokenModel string
	if settings.countTokens {
		tokenCounter, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.tokenizerModel})
		if counterError != nil {
			return fmt.Errorf(errorInitializeCounterFmt, counterError)
		}
		renderer.TokenCounter = tokenCounter
		tokenModel = tokenCounter.Name()
	}

	assembler := report.NewAssembler(stderr, renderer)
	var buffer bytes.Buffer
	var renderResults []types.FileRender

	for _, targetPath := range targetPaths {
		validatedPath, classifyError := classifyPath(targetPath)
		if classifyError != nil {
			fmt.Fprintf(stderr, warningInvalidPathFormat, targetPath)
			continue
		}
		if validatedPath.IsDir {
			directoryResults, reportError := assembler.WriteDirectoryReport(&buffer, validatedPath.AbsolutePath)
			if reportError != nil {
				fmt.Fprintf(stderr, warningSkipPathFormat, validatedPath.AbsolutePath, reportError)
				continue
			}
			renderResults = append(renderResults, directoryResults...)
			continue
		}
		renderResults = append(renderResults, assembler.WriteFileReport(&buffer, validatedPath.AbsolutePath))
	}

	if settings.includeSummary {
		report.WriteSummary(&buffer, summarize(renderResults, tokenModel))
	}

	if _, writeError := stdout.Write(buffer.Bytes()); writeError != nil {
		return fmt.Errorf(errorWriteReportFormat, writeError)
	}

	if settings.copyToClipboard {
		if copyError := clipboard.NewService().Copy(buffer.String()); copyError != nil {
			fmt.Fprintf(stderr, warningClipboardFormat, copyError)
		}
	}
	return nil
}

// classifyPath resolves a target to absolute form and determines whether it is
// a directory or a regular file. Anything else is rejected.
func classifyPath(targetPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(targetPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, targetPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	pathInformation, statError := os.Stat(cleanPath)
	if statError != nil {
		return types.ValidatedPath{}, statError
	}
	if !pathInformation.IsDir() && !pathInformation.Mode().IsRegular() {
		return types.ValidatedPath{}, fmt.Errorf("%s is neither a directory nor a regular file", cleanPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: pathInformation.IsDir()}, nil
}

// summarize aggregates render results for the summary section. Failed renders
// are excluded from the totals.
func summarize(renderResults []types.FileRender, tokenModel string) types.ReportSummary {
	summary := types.ReportSummary{Model: tokenModel}
	for _, renderResult := range renderResults {
		if renderResult.Failed {
			continue
		}
		summary.TotalFiles++
		summary.TotalBytes += renderResult.SizeBytes
		summary.TotalTokens += renderResult.Tokens
	}
	return summary
}
