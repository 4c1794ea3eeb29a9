// Package session coordinates one user turn: it classifies the incoming
// message, consults the preference store, drives recipe generation, and
// shapes a transport-free reply. The Telegram layer only translates Reply
// values into API calls.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rambo1111/sous-chef-bot/internal/config"
	"github.com/rambo1111/sous-chef-bot/internal/database"
	"github.com/rambo1111/sous-chef-bot/internal/gemini"
	"github.com/rambo1111/sous-chef-bot/internal/recipe"
	"github.com/rambo1111/sous-chef-bot/internal/router"
)

// loadingMessages are rotated while a recipe is being generated.
var loadingMessages = []string{
	"🍳 Prepping the kitchen...",
	"🥕 Sharpening my knives...",
	"🔥 Preheating the oven...",
	"🤖 Consulting with the master chefs...",
	"📚 Skimming through my cookbook...",
	"🌿 Gathering fresh herbs...",
}

// maxButtonTitleLen bounds recipe titles on inline buttons.
const maxButtonTitleLen = 28

// draft is the per-user last generated or viewed recipe. It backs the
// Nutrition/Facts/Save buttons between turns.
type draft struct {
	card  *recipe.Card
	saved bool
}

// Orchestrator is the single entry point for user interactions. It holds no
// transport state and is safe for concurrent use.
type Orchestrator struct {
	store      database.Store
	generator  gemini.Client
	messages   config.MessagesConfig
	genTimeout time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	drafts map[int64]*draft
}

// New creates an Orchestrator wired to the given store and recipe generator.
func New(store database.Store, generator gemini.Client, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Orchestrator{
		store:      store,
		generator:  generator,
		messages:   cfg.Messages,
		genTimeout: cfg.Gemini.Timeout,
		logger:     logger,
		drafts:     make(map[int64]*draft),
	}
}

// LoadingMessage returns a random progress message the transport may send
// before a generation round trip.
func (o *Orchestrator) LoadingMessage() string {
	return loadingMessages[rand.IntN(len(loadingMessages))]
}

// Handle processes one incoming message and returns exactly one reply.
// Every input maps to a reply; failures surface as user-facing text, never
// as a silent drop.
func (o *Orchestrator) Handle(ctx context.Context, userID int64, text string) *Reply {
	cls := router.Classify(text)

	o.logger.Debug("routed message",
		"user_id", userID,
		"intent", cls.Intent.String(),
		"unknown", cls.Unknown)

	switch cls.Intent {
	case router.Start:
		return textReply(o.messages.Welcome)

	case router.Help:
		if cls.Unknown {
			return textReply(o.messages.UnknownCommand + "\n\n" + o.messages.Help)
		}
		return textReply(o.messages.Help)

	case router.SetHealth:
		return o.handleHealth(ctx, userID, cls.Payload)

	case router.SetDiet:
		return o.handleDiet(ctx, userID, cls.Payload)

	case router.Status:
		return o.handleStatus(ctx, userID)

	case router.ListRecipes:
		return o.listRecipes(ctx, userID, false)

	case router.ClearPreferences:
		return o.handleClear(ctx, userID)

	default:
		return o.generate(ctx, userID, cls.Payload)
	}
}

func (o *Orchestrator) handleHealth(ctx context.Context, userID int64, payload string) *Reply {
	if strings.TrimSpace(payload) == "" {
		return healthMenu(false)
	}

	update, err := recipe.ParseHealthPayload(payload)
	if err != nil {
		return textReply(o.messages.HealthUsage)
	}

	if err := o.store.UpsertHealth(ctx, userID, update); err != nil {
		o.logger.Error("failed to save health stats", "user_id", userID, "error", err)
		return textReply(o.messages.StoreUnavailable)
	}

	return textReply(o.messages.HealthSaved)
}

func (o *Orchestrator) handleDiet(ctx context.Context, userID int64, payload string) *Reply {
	if strings.TrimSpace(payload) == "" {
		return textReply(o.messages.DietUsage)
	}

	restrictions, allergies, err := recipe.ParseDietPayload(payload)
	if err != nil {
		return textReply(o.messages.DietUsage)
	}

	if err := o.store.UpsertDiet(ctx, userID, restrictions, allergies); err != nil {
		o.logger.Error("failed to save dietary preferences", "user_id", userID, "error", err)
		return textReply(o.messages.StoreUnavailable)
	}

	return textReply(o.messages.DietSaved)
}

func (o *Orchestrator) handleStatus(ctx context.Context, userID int64) *Reply {
	pref, err := o.store.GetPreference(ctx, userID)
	if err != nil {
		o.logger.Error("failed to load preferences", "user_id", userID, "error", err)
		return textReply(o.messages.StoreUnavailable)
	}

	if pref.IsEmpty() {
		return textReply(o.messages.NoPreferences)
	}

	return &Reply{Text: recipe.FormatStatus(pref), Markdown: true}
}

func (o *Orchestrator) handleClear(ctx context.Context, userID int64) *Reply {
	if err := o.store.ClearPreferences(ctx, userID); err != nil {
		o.logger.Error("failed to clear preferences", "user_id", userID, "error", err)
		return textReply(o.messages.StoreUnavailable)
	}

	o.mu.Lock()
	delete(o.drafts, userID)
	o.mu.Unlock()

	return textReply(o.messages.Cleared)
}

// generate runs the free-text path: load preferences, compose the prompt,
// call the generator under a bounded timeout, and cache the result as the
// user's draft.
func (o *Orchestrator) generate(ctx context.Context, userID int64, text string) *Reply {
	pref, err := o.store.GetPreference(ctx, userID)
	if err != nil {
		// Generation is best effort, an unreachable store means an
		// unpersonalized recipe rather than no recipe.
		o.logger.Warn("generating without preferences", "user_id", userID, "error", err)
		pref = &database.UserPreference{UserID: userID}
	}

	prompt := recipe.ComposePrompt(pref, text)

	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	card, err := o.generator.GenerateRecipe(genCtx, prompt)
	if err != nil {
		o.logger.Error("recipe generation failed", "user_id", userID, "error", err)
		return textReply(o.messages.GenerationError)
	}

	o.mu.Lock()
	o.drafts[userID] = &draft{card: card}
	o.mu.Unlock()

	return &Reply{
		Text:     recipe.FormatCard(card),
		Markdown: true,
		Keyboard: recipeKeyboard("main", false),
	}
}

// HandleCallback processes one inline-button press. Replies with Edit set
// rewrite the originating message; Alert-only replies just pop a toast.
func (o *Orchestrator) HandleCallback(ctx context.Context, userID int64, data string) *Reply {
	switch {
	case data == "health_back":
		return healthMenu(true)

	case data == "health_done":
		return &Reply{Text: o.messages.HealthSaved, Edit: true}

	case strings.HasPrefix(data, "health_"):
		return metricMenu(strings.TrimPrefix(data, "health_"))

	case strings.HasPrefix(data, "bp_"), strings.HasPrefix(data, "bs_"), strings.HasPrefix(data, "chol_"):
		return o.selectMetric(ctx, userID, data)

	case data == "save_last_recipe":
		return o.saveDraft(ctx, userID)

	case strings.HasPrefix(data, "recipe_"):
		return o.draftView(userID, strings.TrimPrefix(data, "recipe_"))

	case data == "recipes_list":
		return o.listRecipes(ctx, userID, true)

	case strings.HasPrefix(data, "view_recipe_"):
		return o.viewRecipe(ctx, userID, strings.TrimPrefix(data, "view_recipe_"))

	case strings.HasPrefix(data, "delete_recipe_"):
		return o.deleteRecipe(ctx, userID, strings.TrimPrefix(data, "delete_recipe_"))

	default:
		o.logger.Warn("unknown callback data", "user_id", userID, "data", data)
		return &Reply{}
	}
}

// selectMetric persists one health option picked from the inline menus.
func (o *Orchestrator) selectMetric(ctx context.Context, userID int64, data string) *Reply {
	prefix, value, _ := strings.Cut(data, "_")

	var (
		update database.HealthUpdate
		metric string
		label  string
	)
	switch prefix {
	case "bp":
		update.BloodPressure = &value
		metric = recipe.KeyBloodPressure
		label = "Blood pressure"
	case "bs":
		update.BloodSugar = &value
		metric = recipe.KeyBloodSugar
		label = "Blood sugar"
	default:
		update.Cholesterol = &value
		metric = recipe.KeyCholesterol
		label = "Cholesterol"
	}

	if err := o.store.UpsertHealth(ctx, userID, update); err != nil {
		o.logger.Error("failed to save health stats", "user_id", userID, "error", err)
		return &Reply{Alert: o.messages.StoreUnavailable}
	}

	return &Reply{
		Text: fmt.Sprintf("✅ %s set to: %s", label, recipe.HealthLabel(metric, value)),
		Edit: true,
		Keyboard: [][]Button{
			{{Label: "Back", Data: "health_back"}},
		},
	}
}

// saveDraft persists the user's last generated recipe.
func (o *Orchestrator) saveDraft(ctx context.Context, userID int64) *Reply {
	o.mu.Lock()
	d := o.drafts[userID]
	o.mu.Unlock()

	if d == nil {
		return &Reply{Alert: "Error: Couldn't find the recipe to save."}
	}
	if d.saved {
		return &Reply{Alert: o.messages.RecipeSaved}
	}

	payload, err := json.Marshal(d.card)
	if err != nil {
		o.logger.Error("failed to encode recipe", "user_id", userID, "error", err)
		return &Reply{Alert: o.messages.GenerationError}
	}

	saved := &database.SavedRecipe{
		UserID:  userID,
		Title:   d.card.Recipe.Name,
		Payload: string(payload),
	}
	if err := o.store.AppendRecipe(ctx, saved); err != nil {
		o.logger.Error("failed to save recipe", "user_id", userID, "error", err)
		return &Reply{Alert: o.messages.StoreUnavailable}
	}

	o.mu.Lock()
	d.saved = true
	o.mu.Unlock()

	// Rebuild the keyboard without the save button to prevent duplicates.
	return &Reply{
		Alert:    o.messages.RecipeSaved,
		Text:     recipe.FormatCard(d.card),
		Markdown: true,
		Edit:     true,
		Keyboard: recipeKeyboard("main", true),
	}
}

// draftView switches the draft message between recipe, nutrition, and facts.
func (o *Orchestrator) draftView(userID int64, view string) *Reply {
	o.mu.Lock()
	d := o.drafts[userID]
	o.mu.Unlock()

	if d == nil {
		return &Reply{Text: "❌ No recipe data found. Please create a new recipe.", Edit: true}
	}

	var text string
	switch view {
	case "nutrition":
		text = recipe.FormatNutrition(d.card)
	case "facts":
		text = recipe.FormatFacts(d.card)
	default:
		view = "main"
		text = recipe.FormatCard(d.card)
	}

	return &Reply{
		Text:     text,
		Markdown: true,
		Edit:     true,
		Keyboard: recipeKeyboard(view, d.saved),
	}
}

// listRecipes builds the saved-recipe picker. edit reuses the originating
// message (callback path), otherwise a fresh message is sent.
func (o *Orchestrator) listRecipes(ctx context.Context, userID int64, edit bool) *Reply {
	recipes, err := o.store.ListRecipes(ctx, userID)
	if err != nil {
		o.logger.Error("failed to list recipes", "user_id", userID, "error", err)
		return &Reply{Text: o.messages.StoreUnavailable, Edit: edit}
	}

	if len(recipes) == 0 {
		return &Reply{Text: o.messages.NoRecipes, Edit: edit}
	}

	keyboard := make([][]Button, 0, len(recipes))
	for _, r := range recipes {
		keyboard = append(keyboard, []Button{{
			Label: recipe.TruncateTitle(r.Title, maxButtonTitleLen),
			Data:  "view_recipe_" + strconv.FormatInt(r.ID, 10),
		}})
	}

	return &Reply{
		Text:     "📚 *Your Saved Recipes:*\n\nSelect a recipe to view its details\\.",
		Markdown: true,
		Edit:     edit,
		Keyboard: keyboard,
	}
}

// viewRecipe loads a saved recipe into the draft cache so the view buttons
// work, and renders it with delete and back controls.
func (o *Orchestrator) viewRecipe(ctx context.Context, userID int64, idStr string) *Reply {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return &Reply{Alert: o.messages.RecipeNotFound}
	}

	saved, err := o.store.GetRecipe(ctx, id, userID)
	if err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return &Reply{Text: o.messages.RecipeNotFound, Edit: true}
		}
		o.logger.Error("failed to load recipe", "user_id", userID, "recipe_id", id, "error", err)
		return &Reply{Text: o.messages.StoreUnavailable, Edit: true}
	}

	card := &recipe.Card{}
	if err := json.Unmarshal([]byte(saved.Payload), card); err != nil {
		o.logger.Error("corrupt recipe payload", "user_id", userID, "recipe_id", id, "error", err)
		return &Reply{Text: o.messages.RecipeNotFound, Edit: true}
	}

	o.mu.Lock()
	o.drafts[userID] = &draft{card: card, saved: true}
	o.mu.Unlock()

	return &Reply{
		Text:     recipe.FormatCard(card),
		Markdown: true,
		Edit:     true,
		Keyboard: [][]Button{
			{{Label: "📊 Nutrition", Data: "recipe_nutrition"}, {Label: "🧠 Facts", Data: "recipe_facts"}},
			{{Label: "🗑️ Delete Recipe", Data: "delete_recipe_" + idStr}},
			{{Label: "⬅️ Back to Recipes", Data: "recipes_list"}},
		},
	}
}

func (o *Orchestrator) deleteRecipe(ctx context.Context, userID int64, idStr string) *Reply {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return &Reply{Alert: o.messages.RecipeNotFound}
	}

	if err := o.store.DeleteRecipe(ctx, id, userID); err != nil {
		if errors.Is(err, database.ErrRecipeNotFound) {
			return &Reply{Text: o.messages.RecipeNotFound, Edit: true}
		}
		o.logger.Error("failed to delete recipe", "user_id", userID, "recipe_id", id, "error", err)
		return &Reply{Text: o.messages.StoreUnavailable, Edit: true}
	}

	reply := o.listRecipes(ctx, userID, true)
	if len(reply.Keyboard) == 0 {
		reply = &Reply{Text: o.messages.RecipeDeleted, Edit: true}
	}
	reply.Alert = o.messages.RecipeDeleted
	return reply
}

// healthMenu is the top-level health setup keyboard.
func healthMenu(edit bool) *Reply {
	return &Reply{
		Text:     "🏥 *Health Information Setup*\n\nSelect which health information you'd like to set:",
		Markdown: true,
		Edit:     edit,
		Keyboard: [][]Button{
			{{Label: "Blood Pressure", Data: "health_bp"}},
			{{Label: "Blood Sugar", Data: "health_bs"}},
			{{Label: "Cholesterol", Data: "health_chol"}},
			{{Label: "Done", Data: "health_done"}},
		},
	}
}

// metricMenu is the option keyboard for one health metric.
func metricMenu(metric string) *Reply {
	var (
		title   string
		options [][]Button
	)
	switch metric {
	case "bp":
		title = "🩺 *Blood Pressure*\n\nSelect your blood pressure range:"
		options = [][]Button{
			{{Label: "Normal (120/80)", Data: "bp_normal"}},
			{{Label: "Elevated (120-129/80)", Data: "bp_elevated"}},
			{{Label: "High Stage 1", Data: "bp_high_stage1"}},
			{{Label: "High Stage 2", Data: "bp_high_stage2"}},
		}
	case "bs":
		title = "🍬 *Blood Sugar*\n\nSelect your blood sugar range:"
		options = [][]Button{
			{{Label: "Normal (70-100 mg/dL)", Data: "bs_normal"}},
			{{Label: "Prediabetic (100-125 mg/dL)", Data: "bs_prediabetic"}},
			{{Label: "Diabetic (126+ mg/dL)", Data: "bs_diabetic"}},
		}
	default:
		title = "🫀 *Cholesterol*\n\nSelect your cholesterol range:"
		options = [][]Button{
			{{Label: "Normal (<200 mg/dL)", Data: "chol_normal"}},
			{{Label: "Borderline (200-239 mg/dL)", Data: "chol_borderline"}},
			{{Label: "High (240+ mg/dL)", Data: "chol_high"}},
		}
	}

	return &Reply{
		Text:     title,
		Markdown: true,
		Edit:     true,
		Keyboard: append(options, []Button{{Label: "Back", Data: "health_back"}}),
	}
}

// recipeKeyboard builds the navigation keyboard for a draft recipe message.
func recipeKeyboard(view string, saved bool) [][]Button {
	var row []Button
	switch view {
	case "nutrition":
		row = []Button{{Label: "🍽️ Recipe", Data: "recipe_main"}, {Label: "🧠 Facts", Data: "recipe_facts"}}
	case "facts":
		row = []Button{{Label: "🍽️ Recipe", Data: "recipe_main"}, {Label: "📊 Nutrition", Data: "recipe_nutrition"}}
	default:
		row = []Button{{Label: "📊 Nutrition", Data: "recipe_nutrition"}, {Label: "🧠 Facts", Data: "recipe_facts"}}
	}

	keyboard := [][]Button{row}
	if !saved {
		keyboard = append(keyboard, []Button{{Label: "💾 Save Recipe", Data: "save_last_recipe"}})
	}
	return keyboard
}
