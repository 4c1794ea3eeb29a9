package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrRecipeNotFound is returned when a recipe lookup or delete matches no row.
var ErrRecipeNotFound = errors.New("recipe not found")

// Store defines the interface for preference and recipe persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetPreference retrieves the preference record for a user. A user with
	// no stored record gets the zero-value default, never an error.
	GetPreference(ctx context.Context, userID int64) (*UserPreference, error)

	// UpsertHealth merges the set fields of update into the stored health
	// stats, preserving metrics the update does not mention.
	UpsertHealth(ctx context.Context, userID int64, update HealthUpdate) error

	// UpsertDiet replaces the dietary restrictions and allergies wholesale.
	UpsertDiet(ctx context.Context, userID int64, restrictions, allergies string) error

	// ClearPreferences resets the user's record to defaults and removes all
	// saved recipes. Clearing an absent record is a no-op.
	ClearPreferences(ctx context.Context, userID int64) error

	// AppendRecipe stores a generated recipe for the user.
	AppendRecipe(ctx context.Context, recipe *SavedRecipe) error

	// ListRecipes returns the user's saved recipes, most recent first.
	ListRecipes(ctx context.Context, userID int64) ([]*SavedRecipe, error)

	// GetRecipe retrieves one saved recipe owned by the user.
	GetRecipe(ctx context.Context, id, userID int64) (*SavedRecipe, error)

	// DeleteRecipe removes one saved recipe owned by the user.
	DeleteRecipe(ctx context.Context, id, userID int64) error

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetPreference(ctx context.Context, userID int64) (*UserPreference, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var pref UserPreference
	query := `SELECT user_id, created_at, updated_at, blood_pressure, blood_sugar, cholesterol,
	                 dietary_restrictions, allergies
	          FROM user_preferences WHERE user_id = ?`

	err := s.db.GetContext(ctx, &pref, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First interaction, defaults apply.
		s.logger.DebugContext(ctx, "No stored preference, returning defaults", "user_id", userID)
		return &UserPreference{UserID: userID}, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching preference",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting preference", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get preference for user %d: %w", userID, err)
	}

	return &pref, nil
}

func (s *sqlxStore) UpsertHealth(ctx context.Context, userID int64, update HealthUpdate) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if update.IsZero() {
		return fmt.Errorf("health update carries no fields")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for health upsert",
			"user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, &tx)

	exists, err := s.rowExists(ctx, tx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !exists {
		pref := &UserPreference{UserID: userID, CreatedAt: now, UpdatedAt: now}
		applyHealthUpdate(pref, update)
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO user_preferences (
				user_id, blood_pressure, blood_sugar, cholesterol,
				dietary_restrictions, allergies, created_at, updated_at
			) VALUES (
				:user_id, :blood_pressure, :blood_sugar, :cholesterol,
				:dietary_restrictions, :allergies, :created_at, :updated_at
			)`, pref)
	} else {
		// Only the supplied metrics are touched; the rest keep their values.
		sets := []string{"updated_at = ?"}
		args := []any{now}
		if update.BloodPressure != nil {
			sets = append(sets, "blood_pressure = ?")
			args = append(args, *update.BloodPressure)
		}
		if update.BloodSugar != nil {
			sets = append(sets, "blood_sugar = ?")
			args = append(args, *update.BloodSugar)
		}
		if update.Cholesterol != nil {
			sets = append(sets, "cholesterol = ?")
			args = append(args, *update.Cholesterol)
		}
		args = append(args, userID)
		query := "UPDATE user_preferences SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
		_, err = tx.ExecContext(ctx, query, args...)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting health stats", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert health stats for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit health upsert", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Health stats saved", "user_id", userID, "created", !exists)
	return nil
}

func (s *sqlxStore) UpsertDiet(ctx context.Context, userID int64, restrictions, allergies string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for diet upsert",
			"user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, &tx)

	exists, err := s.rowExists(ctx, tx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !exists {
		pref := &UserPreference{
			UserID:              userID,
			DietaryRestrictions: restrictions,
			Allergies:           allergies,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO user_preferences (
				user_id, blood_pressure, blood_sugar, cholesterol,
				dietary_restrictions, allergies, created_at, updated_at
			) VALUES (
				:user_id, :blood_pressure, :blood_sugar, :cholesterol,
				:dietary_restrictions, :allergies, :created_at, :updated_at
			)`, pref)
	} else {
		// Last write wins, both sets replaced wholesale.
		_, err = tx.ExecContext(ctx,
			`UPDATE user_preferences SET dietary_restrictions = ?, allergies = ?, updated_at = ? WHERE user_id = ?`,
			restrictions, allergies, now, userID)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting diet", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert diet for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit diet upsert", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Diet preferences saved", "user_id", userID, "created", !exists)
	return nil
}

func (s *sqlxStore) ClearPreferences(ctx context.Context, userID int64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for clear", "user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, &tx)

	prefResult, err := tx.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting preference during clear", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear preference for user %d: %w", userID, err)
	}

	recipesResult, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting recipes during clear", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear recipes for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit clear", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	prefCount, _ := prefResult.RowsAffected()
	recipeCount, _ := recipesResult.RowsAffected()
	s.logger.InfoContext(ctx, "Cleared user data",
		"user_id", userID, "preferences_deleted", prefCount, "recipes_deleted", recipeCount)
	return nil
}

func (s *sqlxStore) AppendRecipe(ctx context.Context, recipe *SavedRecipe) error {
	if recipe == nil {
		return fmt.Errorf("cannot save nil recipe")
	}
	if recipe.UserID == 0 {
		return fmt.Errorf("recipe must have a non-zero user_id")
	}
	if recipe.Title == "" {
		return fmt.Errorf("recipe must have a title")
	}
	if recipe.Payload == "" {
		return fmt.Errorf("recipe must have a payload")
	}

	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.NamedExecContext(ctx, `
		INSERT INTO recipes (user_id, title, payload, created_at)
		VALUES (:user_id, :title, :payload, :created_at)`, recipe)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving recipe", "user_id", recipe.UserID, "error", err)
		return fmt.Errorf("failed to save recipe for user %d: %w", recipe.UserID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		recipe.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID for recipe",
			"user_id", recipe.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Recipe saved", "user_id", recipe.UserID, "recipe_id", recipe.ID)
	return nil
}

func (s *sqlxStore) ListRecipes(ctx context.Context, userID int64) ([]*SavedRecipe, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var recipes []*SavedRecipe
	query := `SELECT id, user_id, title, payload, created_at
	          FROM recipes
	          WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC`

	err := s.db.SelectContext(ctx, &recipes, query, userID)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing recipes",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing recipes", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list recipes for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Listed recipes", "user_id", userID, "count", len(recipes))
	return recipes, nil
}

func (s *sqlxStore) GetRecipe(ctx context.Context, id, userID int64) (*SavedRecipe, error) {
	if id == 0 || userID == 0 {
		return nil, fmt.Errorf("recipe id and user_id cannot be zero")
	}

	var recipe SavedRecipe
	query := `SELECT id, user_id, title, payload, created_at FROM recipes WHERE id = ? AND user_id = ?`

	err := s.db.GetContext(ctx, &recipe, query, id, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrRecipeNotFound

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching recipe",
			"recipe_id", id, "user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting recipe", "recipe_id", id, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get recipe %d for user %d: %w", id, userID, err)
	}

	return &recipe, nil
}

func (s *sqlxStore) DeleteRecipe(ctx context.Context, id, userID int64) error {
	if id == 0 || userID == 0 {
		return fmt.Errorf("recipe id and user_id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting recipe", "recipe_id", id, "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete recipe %d for user %d: %w", id, userID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrRecipeNotFound
	}

	s.logger.InfoContext(ctx, "Deleted recipe", "recipe_id", id, "user_id", userID)
	return nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}

// rollback rolls the transaction back unless it was committed (set to nil).
func (s *sqlxStore) rollback(ctx context.Context, tx **sqlx.Tx) {
	if *tx == nil {
		return
	}
	if err := (*tx).Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.WarnContext(ctx, "Error rolling back transaction", "error", err)
	}
}

func (s *sqlxStore) rowExists(ctx context.Context, tx *sqlx.Tx, userID int64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `SELECT 1 FROM user_preferences WHERE user_id = ? LIMIT 1`, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if preference exists", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check preference existence for user %d: %w", userID, err)
	}
	return exists, nil
}

func applyHealthUpdate(pref *UserPreference, update HealthUpdate) {
	if update.BloodPressure != nil {
		pref.BloodPressure = *update.BloodPressure
	}
	if update.BloodSugar != nil {
		pref.BloodSugar = *update.BloodSugar
	}
	if update.Cholesterol != nil {
		pref.Cholesterol = *update.Cholesterol
	}
}
