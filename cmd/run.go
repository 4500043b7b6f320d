// File: cmd/run.go
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/conduit/api/schemas"
	"github.com/xkilldash9x/conduit/internal/agent"
	"github.com/xkilldash9x/conduit/internal/config"
	"github.com/xkilldash9x/conduit/internal/modules"
	"github.com/xkilldash9x/conduit/internal/observability"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		inputJSON   string
		inputFile   string
		interactive bool
	)

	runCmd := &cobra.Command{
		Use:   "run [pipeline]",
		Short: "Runs input through a pipeline (or the configured default)",
		Long: `Runs one invocation of the named pipeline against the input payload and
prints the result as JSON. With no pipeline argument the configured
"default" pipeline is used, falling back to auto-discovery when enabled.

In interactive mode each line read from stdin is processed as
{"user_input": <line>} until "exit", "quit", or EOF.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			pipelineName := ""
			if len(args) > 0 {
				pipelineName = args[0]
			}

			ag := agent.New(cfg, logger)
			if err := ag.Initialize(modules.Builtins()); err != nil {
				return fmt.Errorf("agent initialization failed: %w", err)
			}
			defer ag.Shutdown()

			if interactive {
				return runInteractive(cmd, ag, pipelineName)
			}

			input, err := readInput(inputJSON, inputFile)
			if err != nil {
				return err
			}

			result, err := ag.Process(ctx, input, pipelineName)
			if err != nil {
				return err
			}

			out, err := schemas.MarshalPayload(result)
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	runCmd.Flags().StringVar(&inputJSON, "input", "", "input payload as a JSON object")
	runCmd.Flags().StringVar(&inputFile, "input-file", "", "path to a JSON file holding the input payload")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read inputs line by line from stdin")

	return runCmd
}

// readInput builds the initial payload from --input or --input-file, in that
// precedence. No input means an empty payload, which is valid: modules like
// counter need nothing from the caller.
func readInput(inputJSON, inputFile string) (schemas.Payload, error) {
	if inputJSON != "" {
		p, err := schemas.UnmarshalPayload([]byte(inputJSON))
		if err != nil {
			return nil, fmt.Errorf("invalid --input JSON: %w", err)
		}
		return p, nil
	}
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		p, err := schemas.UnmarshalPayload(data)
		if err != nil {
			return nil, fmt.Errorf("invalid input file JSON: %w", err)
		}
		return p, nil
	}
	return schemas.Payload{}, nil
}

// runInteractive is the line-oriented shell: one Process call per line.
// Processing errors are printed but do not end the session; only EOF, an
// exit keyword, or context cancellation do.
func runInteractive(cmd *cobra.Command, ag *agent.Agent, pipelineName string) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(cmd.OutOrStdout(), "conduit > ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := ag.Process(ctx, schemas.Payload{"user_input": line}, pipelineName)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			continue
		}

		out, err := schemas.MarshalPayload(result)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading from stdin: %w", err)
	}
	return nil
}
