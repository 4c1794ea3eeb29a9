package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rambo1111/sous-chef-bot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func strPtr(s string) *string { return &s }

func TestGetPreference_DefaultsForUnseenUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	pref, err := store.GetPreference(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pref.UserID)
	assert.True(t, pref.IsEmpty())
}

func TestGetPreference_ZeroUserID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetPreference(context.Background(), 0)
	require.Error(t, err)
}

func TestUpsertHealth_MergesDisjointUpdates(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpsertHealth(ctx, 1, database.HealthUpdate{BloodPressure: strPtr("120/80")})
	require.NoError(t, err)

	err = store.UpsertHealth(ctx, 1, database.HealthUpdate{BloodSugar: strPtr("normal")})
	require.NoError(t, err)

	pref, err := store.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "120/80", pref.BloodPressure)
	assert.Equal(t, "normal", pref.BloodSugar)
	assert.Empty(t, pref.Cholesterol)
}

func TestUpsertHealth_OverwritesSameMetric(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertHealth(ctx, 1, database.HealthUpdate{Cholesterol: strPtr("normal")}))
	require.NoError(t, store.UpsertHealth(ctx, 1, database.HealthUpdate{Cholesterol: strPtr("high")}))

	pref, err := store.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "high", pref.Cholesterol)
}

func TestUpsertHealth_EmptyUpdate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	err := store.UpsertHealth(context.Background(), 1, database.HealthUpdate{})
	require.Error(t, err)
}

func TestUpsertDiet_ReplacesWholesale(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertDiet(ctx, 1, "vegan, keto", "nuts"))
	require.NoError(t, store.UpsertDiet(ctx, 1, "vegetarian", ""))

	pref, err := store.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", pref.DietaryRestrictions)
	assert.Empty(t, pref.Allergies)
}

func TestUpsertDiet_PreservesHealthStats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertHealth(ctx, 1, database.HealthUpdate{BloodPressure: strPtr("elevated")}))
	require.NoError(t, store.UpsertDiet(ctx, 1, "paleo", "shellfish"))

	pref, err := store.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "elevated", pref.BloodPressure)
	assert.Equal(t, "paleo", pref.DietaryRestrictions)
	assert.Equal(t, "shellfish", pref.Allergies)
}

func TestClearPreferences(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertDiet(ctx, 1, "vegan", "nuts"))
	require.NoError(t, store.AppendRecipe(ctx, &database.SavedRecipe{UserID: 1, Title: "Soup", Payload: "{}"}))

	require.NoError(t, store.ClearPreferences(ctx, 1))

	pref, err := store.GetPreference(ctx, 1)
	require.NoError(t, err)
	assert.True(t, pref.IsEmpty())

	recipes, err := store.ListRecipes(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestClearPreferences_AbsentUserIsNoOp(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.ClearPreferences(context.Background(), 99))
	require.NoError(t, store.ClearPreferences(context.Background(), 99))
}

func TestListRecipes_MostRecentFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	first := &database.SavedRecipe{UserID: 1, Title: "First", Payload: "{}", CreatedAt: base}
	second := &database.SavedRecipe{UserID: 1, Title: "Second", Payload: "{}", CreatedAt: base.Add(time.Minute)}

	require.NoError(t, store.AppendRecipe(ctx, first))
	require.NoError(t, store.AppendRecipe(ctx, second))

	recipes, err := store.ListRecipes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Second", recipes[0].Title)
	assert.Equal(t, "First", recipes[1].Title)
}

func TestListRecipes_ScopedToUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRecipe(ctx, &database.SavedRecipe{UserID: 1, Title: "Mine", Payload: "{}"}))
	require.NoError(t, store.AppendRecipe(ctx, &database.SavedRecipe{UserID: 2, Title: "Theirs", Payload: "{}"}))

	recipes, err := store.ListRecipes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mine", recipes[0].Title)
}

func TestGetRecipe(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	saved := &database.SavedRecipe{UserID: 1, Title: "Stew", Payload: `{"recipe":{"name":"Stew"}}`}
	require.NoError(t, store.AppendRecipe(ctx, saved))
	require.NotZero(t, saved.ID)

	got, err := store.GetRecipe(ctx, saved.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Stew", got.Title)
	assert.Equal(t, saved.Payload, got.Payload)

	// Another user cannot read it.
	_, err = store.GetRecipe(ctx, saved.ID, 2)
	assert.ErrorIs(t, err, database.ErrRecipeNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	saved := &database.SavedRecipe{UserID: 1, Title: "Salad", Payload: "{}"}
	require.NoError(t, store.AppendRecipe(ctx, saved))

	require.NoError(t, store.DeleteRecipe(ctx, saved.ID, 1))

	_, err := store.GetRecipe(ctx, saved.ID, 1)
	assert.ErrorIs(t, err, database.ErrRecipeNotFound)

	err = store.DeleteRecipe(ctx, saved.ID, 1)
	assert.ErrorIs(t, err, database.ErrRecipeNotFound)
}

func TestDeleteRecipe_OtherUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	saved := &database.SavedRecipe{UserID: 1, Title: "Curry", Payload: "{}"}
	require.NoError(t, store.AppendRecipe(ctx, saved))

	err := store.DeleteRecipe(ctx, saved.ID, 2)
	assert.ErrorIs(t, err, database.ErrRecipeNotFound)

	// Still there for the owner.
	_, err = store.GetRecipe(ctx, saved.ID, 1)
	require.NoError(t, err)
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.RunMaintenance(context.Background()))
}
