package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/profilegen/internal/model"
)

var (
	generateURLs        []string
	generateTemplate    string
	generateFocus       []string
	generateRequestFile string
	generateNoCache     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a company profile from source URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := buildRequest()
		if err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Orchestrator.Submit(ctx, req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// buildRequest assembles the generation request from --request-file
// and/or flags. Flags override file values.
func buildRequest() (model.GenerationRequest, error) {
	var req model.GenerationRequest

	if generateRequestFile != "" {
		data, err := os.ReadFile(generateRequestFile)
		if err != nil {
			return req, eris.Wrapf(err, "read request file %s", generateRequestFile)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, eris.Wrap(err, "parse request file")
		}
	}

	if len(generateURLs) > 0 {
		req.URLs = generateURLs
	}
	if generateTemplate != "" {
		req.Template = generateTemplate
	}
	if len(generateFocus) > 0 {
		req.FocusAreas = generateFocus
	}
	if generateNoCache {
		disabled := false
		req.UseCache = &disabled
	}

	if len(req.URLs) == 0 {
		return req, eris.New("at least one --url or a request file with urls is required")
	}
	return req, nil
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateURLs, "url", nil, "source URL (repeatable)")
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "profile template (startup|enterprise|technology|financial)")
	generateCmd.Flags().StringSliceVar(&generateFocus, "focus", nil, "focus area override (repeatable)")
	generateCmd.Flags().StringVar(&generateRequestFile, "request-file", "", "YAML file with the full generation request")
	generateCmd.Flags().BoolVar(&generateNoCache, "no-cache", false, "bypass the result cache")
	rootCmd.AddCommand(generateCmd)
}
