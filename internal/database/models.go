package database

import "time"

// UserPreference is the durable per-user record of health stats and dietary
// constraints. A user without a row reads as the zero-value record.
type UserPreference struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	BloodPressure       string `db:"blood_pressure"`
	BloodSugar          string `db:"blood_sugar"`
	Cholesterol         string `db:"cholesterol"`
	DietaryRestrictions string `db:"dietary_restrictions"`
	Allergies           string `db:"allergies"`
}

// IsEmpty reports whether the record carries no user-set data.
func (p *UserPreference) IsEmpty() bool {
	return p.BloodPressure == "" && p.BloodSugar == "" && p.Cholesterol == "" &&
		p.DietaryRestrictions == "" && p.Allergies == ""
}

// HealthUpdate is a typed partial update of the health metrics. Nil fields
// leave the stored value untouched.
type HealthUpdate struct {
	BloodPressure *string
	BloodSugar    *string
	Cholesterol   *string
}

// IsZero reports whether no metric is set.
func (u HealthUpdate) IsZero() bool {
	return u.BloodPressure == nil && u.BloodSugar == nil && u.Cholesterol == nil
}

// SavedRecipe is a recipe the user chose to keep. Payload holds the full
// generated recipe card as JSON.
type SavedRecipe struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}
