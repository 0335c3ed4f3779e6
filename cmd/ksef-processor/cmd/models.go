package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakturnia/ksef-processor/internal/llm"
)

// APIModel represents a model from the OpenAI-compatible /models endpoint
type APIModel struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse represents the response from /models endpoint
type ModelsResponse struct {
	Object string     `json:"object"`
	Data   []APIModel `json:"data"`
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available LLM models from the API",
	Long: `Fetch and list available LLM models from the configured API endpoint.

This command queries the /models endpoint of your LLM provider to show
all models usable for the AI extraction fallback.

To use a specific model, set the environment variable:
  LLM_MODEL=<model-id>

Or use the CLI flag:
  --llm-model <model-id>`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")

	baseURL := llmBaseURL
	if baseURL == "" {
		baseURL = llm.DefaultBaseURL
	}

	currentModel := llmModel
	if currentModel == "" {
		currentModel = llm.ModelClaude35Sonnet + " (default)"
	}

	apiKeyStatus := "Not set"
	if apiKey != "" {
		if len(apiKey) > 8 {
			apiKeyStatus = "Set (" + apiKey[:8] + "...)"
		} else {
			apiKeyStatus = "Set"
		}
	}

	fmt.Printf("  LLM_BASE_URL: %s\n", baseURL)
	fmt.Printf("  LLM_MODEL:    %s\n", currentModel)
	fmt.Printf("  API key:      %s\n", apiKeyStatus)
	fmt.Println()

	if apiKey == "" {
		fmt.Println("An API key is required. Set it via OPENROUTER_API_KEY or the --api-key flag.")
		return nil
	}

	fmt.Printf("Fetching models from %s/models...\n", baseURL)
	fmt.Println()

	models, err := fetchModels(baseURL, apiKey)
	if err != nil {
		fmt.Printf("Could not fetch models: %v\n", err)
		fmt.Println()
		fmt.Println("Tip: Your API provider may not support the /models endpoint.")
		fmt.Println("     You can still use models by setting LLM_MODEL directly.")
		return nil
	}

	if len(models) == 0 {
		fmt.Println("No models returned from API.")
		return nil
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	fmt.Printf("Available Models (%d):\n", len(models))
	fmt.Println("=====================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL ID\tOWNER\tCREATED")
	fmt.Fprintln(w, "--------\t-----\t-------")

	for _, m := range models {
		created := ""
		if m.Created > 0 {
			created = time.Unix(m.Created, 0).Format("2006-01-02")
		}
		owner := m.OwnedBy
		if owner == "" {
			owner = inferProvider(m.ID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, owner, created)
	}
	w.Flush()

	return nil
}

func fetchModels(baseURL, apiKey string) ([]APIModel, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/models"

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var modelsResp ModelsResponse
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		// Some APIs return a bare array instead of an object
		var models []APIModel
		if err2 := json.Unmarshal(body, &models); err2 != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return models, nil
	}

	return modelsResp.Data, nil
}

// inferProvider tries to infer the provider from model ID
func inferProvider(modelID string) string {
	modelID = strings.ToLower(modelID)

	if strings.Contains(modelID, "claude") || strings.Contains(modelID, "anthropic") {
		return "anthropic"
	}
	if strings.Contains(modelID, "gpt") || strings.Contains(modelID, "openai") || strings.Contains(modelID, "o1") {
		return "openai"
	}
	if strings.Contains(modelID, "gemini") || strings.Contains(modelID, "google") {
		return "google"
	}
	if strings.Contains(modelID, "llama") || strings.Contains(modelID, "meta") {
		return "meta"
	}
	if strings.Contains(modelID, "mistral") || strings.Contains(modelID, "mixtral") {
		return "mistral"
	}
	if strings.Contains(modelID, "qwen") {
		return "alibaba"
	}
	if strings.Contains(modelID, "deepseek") {
		return "deepseek"
	}

	return "-"
}
