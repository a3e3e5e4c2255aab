package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/socratiq/agent"
	"github.com/sweetpotato0/socratiq/api"
	"github.com/sweetpotato0/socratiq/orchestrator"
)

var (
	askAgent    string
	askSubAgent string
	askContext  string
	askAssetID  string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Sophie, or one agent with --agent, and print the JSON response",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{needLLM: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return runAsk(cmd, a, strings.Join(args, " "))
	},
}

func runAsk(cmd *cobra.Command, a *app, question string) error {
	var asset agent.AssetContext
	if askContext != "" {
		if err := json.Unmarshal([]byte(askContext), &asset); err != nil {
			return fmt.Errorf("--asset-context: %w", err)
		}
	}

	var status int
	var body []byte
	if askAgent == "" {
		raw, err := json.Marshal(orchestrator.Request{Message: question, AssetID: askAssetID, AssetContext: asset})
		if err != nil {
			return err
		}
		status, body = a.pipeline.ServeOrchestrator(cmd.Context(), a.sophie, raw)
	} else {
		name := strings.ToUpper(askAgent)
		ag, ok := a.agents[name]
		if !ok {
			return fmt.Errorf("unknown agent %q", askAgent)
		}
		raw, err := json.Marshal(agent.Request{Query: question, SubAgent: askSubAgent, AssetContext: asset})
		if err != nil {
			return err
		}
		status, body = a.pipeline.ServeAgent(cmd.Context(), ag, api.AgentSurface(name), raw)
	}

	if err := printJSON(cmd.OutOrStdout(), body); err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("request failed with status %d", status)
	}
	return nil
}

func printJSON(w io.Writer, body []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		out.Reset()
		out.Write(body)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func init() {
	askCmd.Flags().StringVar(&askAgent, "agent", "", "ask this domain agent directly instead of Sophie")
	askCmd.Flags().StringVar(&askSubAgent, "sub-agent", "", "sub-agent focus for --agent")
	askCmd.Flags().StringVar(&askContext, "asset-context", "", "asset context as a JSON object")
	askCmd.Flags().StringVar(&askAssetID, "asset-id", "", "asset identifier recorded in the audit trail")
	rootCmd.AddCommand(askCmd)
}
