package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/flowrun"
	"github.com/viant/flowrun/model/result"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "flowrun",
		Short:        "Run task flows defined in YAML",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "configuration file URL")
	rootCmd.PersistentFlags().String("env-file", "", "env file to load before reading configuration")
	rootCmd.AddCommand(newRunCmd(), newValidateCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <flow location>",
		Short: "Run a flow and print task states",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executorName, _ := cmd.Flags().GetString("executor")
			pairs, _ := cmd.Flags().GetStringArray("param")
			params, err := parseParams(pairs)
			if err != nil {
				return err
			}
			srv, err := newService(cmd, executorName)
			if err != nil {
				return err
			}
			defer srv.Shutdown()
			run, err := srv.RunLocation(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			printRun(cmd, run)
			if !run.State.IsSuccessful() {
				return fmt.Errorf("flow %s: %s", run.State.Kind(), run.State.Message())
			}
			return nil
		},
	}
	cmd.Flags().String("executor", "", "executor: local or inline")
	cmd.Flags().StringArrayP("param", "p", nil, "flow parameter as name=value, may be repeated")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <flow location>",
		Short: "Load a flow and print its task order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newService(cmd, "")
			if err != nil {
				return err
			}
			defer srv.Shutdown()
			flow, err := srv.LoadFlow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tasks, err := flow.SortedTasks()
			if err != nil {
				return err
			}
			cmd.Printf("%v: %d tasks, %d edges\n", flow, len(tasks), len(flow.Edges()))
			for _, task := range tasks {
				cmd.Printf("  %s (%s)\n", task.Name, task.Action)
			}
			return nil
		},
	}
}

func newService(cmd *cobra.Command, executorName string) (*flowrun.Service, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	if err := flowrun.LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	location, _ := cmd.Flags().GetString("config")
	config, err := flowrun.LoadConfig(cmd.Context(), location)
	if err != nil {
		return nil, err
	}
	if executorName != "" {
		config.Runner.Executor = executorName
	}
	return flowrun.New(flowrun.WithConfig(config), flowrun.WithOutput(cmd.OutOrStdout()))
}

// parseParams decodes name=value pairs; values are parsed as YAML scalars or
// collections, falling back to the raw string.
func parseParams(pairs []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q, expected name=value", pair)
		}
		var decoded interface{}
		if err := yaml.Unmarshal([]byte(value), &decoded); err != nil || decoded == nil {
			decoded = value
		}
		params[name] = decoded
	}
	return params, nil
}

func printRun(cmd *cobra.Command, run *result.RunResult) {
	cmd.Printf("flow: %v\n", run.State)
	tasks := run.Tasks()
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %s: %v\n", name, tasks[name].State)
	}
}
