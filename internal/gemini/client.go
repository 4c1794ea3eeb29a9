// Package gemini implements the recipe generator adapter on top of Google's
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rambo1111/sous-chef-bot/internal/config"
	"github.com/rambo1111/sous-chef-bot/internal/recipe"
)

// Client defines the interface the session orchestrator uses to generate
// recipes. The prompt is an opaque string; the result is a parsed card.
type Client interface {
	GenerateRecipe(ctx context.Context, prompt string) (*recipe.Card, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// recipeCardSchema constrains the model output to the recipe card structure.
var recipeCardSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recipe": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":         {Type: genai.TypeString, Description: "Recipe name."},
				"prep_time":    {Type: genai.TypeString, Description: "Preparation time, e.g. '15 minutes'."},
				"cook_time":    {Type: genai.TypeString, Description: "Cooking time."},
				"total_time":   {Type: genai.TypeString, Description: "Total time."},
				"servings":     {Type: genai.TypeString, Description: "Number of servings."},
				"ingredients":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Ingredients with measurements."},
				"instructions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Ordered preparation steps."},
				"health_tips":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Health tips for this dish."},
				"storage":      {Type: genai.TypeString, Description: "Storage instructions."},
			},
			Required: []string{"name", "prep_time", "cook_time", "total_time", "servings", "ingredients", "instructions"},
		},
		"nutritional_info": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"calories_per_serving": {Type: genai.TypeString},
				"protein":              {Type: genai.TypeString},
				"carbs":                {Type: genai.TypeString},
				"fat":                  {Type: genai.TypeString},
				"fiber":                {Type: genai.TypeString},
				"sodium":               {Type: genai.TypeString},
				"health_benefits":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"calories_per_serving", "protein", "carbs", "fat", "fiber", "sodium"},
		},
		"recipe_facts": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"cuisine_type": {Type: genai.TypeString},
				"difficulty":   {Type: genai.TypeString, Description: "Easy/Medium/Hard."},
				"meal_type":    {Type: genai.TypeString, Description: "Breakfast/Lunch/Dinner/Snack."},
				"dietary_tags": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"fun_facts":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"cuisine_type", "difficulty", "meal_type"},
		},
	},
	Required: []string{"recipe", "nutritional_info", "recipe_facts"},
}

// NewClient creates a new Gemini recipe generator with the provided
// configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature:       &cfg.Temperature,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: RecipeSystemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    recipeCardSchema,

		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: baseCfg,
		modelName:     cfg.ModelName,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func (c *sdkClient) GenerateRecipe(ctx context.Context, prompt string) (*recipe.Card, error) {
	c.log.DebugContext(ctx, "Generating recipe", "prompt_len", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini recipe generation failed", "error", err)
		return nil, fmt.Errorf("gemini recipe generation failed: %w", err)
	}

	jsonText, err := c.extractTextFromResponse(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe response: %w", err)
	}

	var card recipe.Card
	if err := json.Unmarshal([]byte(jsonText), &card); err != nil {
		// Schema mode occasionally wraps the object in stray text; salvage
		// the outermost JSON object before giving up.
		if salvaged := extractJSONObject(jsonText); salvaged != "" {
			if retryErr := json.Unmarshal([]byte(salvaged), &card); retryErr == nil {
				return &card, nil
			}
		}
		c.log.ErrorContext(ctx, "Failed to parse recipe JSON from Gemini response", "error", err, "response_text", jsonText)
		return nil, fmt.Errorf("invalid recipe JSON received: %w", err)
	}

	if card.Recipe.Name == "" {
		return nil, fmt.Errorf("recipe JSON missing recipe name")
	}

	c.log.DebugContext(ctx, "Recipe generated", "name", card.Recipe.Name)
	return &card, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry",
			"attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call", "delay", c.retryDelay, "code", apiErr.Code)
				select {
				case <-time.After(c.retryDelay):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return nil, err
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("generation blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("generation returned no content, finish reason: %s", finishReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("generation returned empty text")
	}
	return text, nil
}

// extractJSONObject returns the outermost {...} span of s, or "".
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
