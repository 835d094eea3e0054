package types

// Create payloads. They mirror the entities minus the id and carry the
// validate:"..." rules checked by the validation package before anything
// is written. Required integers are pointers so that a missing value is
// told apart from an explicit 0.

// ChallengeInput is the body of POST /challenges/.
type ChallengeInput struct {
	Category          string `json:"category"            validate:"required"`
	Description       string `json:"description"         validate:"required"`
	DifficultyLevel   *int   `json:"difficulty_level"    validate:"required,gte=0,lte=10"`
	ScoringCriteria   string `json:"scoring_criteria"    validate:"required"`
	CreatedByUsername string `json:"created_by_username" validate:"required"`
	CreatedByEmail    string `json:"created_by_email"    validate:"required,email"`
}

// UserInput is the body of POST /users/ and POST /users/register/.
// bcrypt reads at most 72 bytes of a password, so the bound is in bytes.
type UserInput struct {
	Name      string `json:"name"      validate:"required"`
	Age       *int   `json:"age"       validate:"required,gte=0,lte=100"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,maxbytes=72"`
	Course    string `json:"course"    validate:"required"`
	Challenge string `json:"challenge"`
}

// WasteCategoryInput is the body of POST /waste_categories/.
type WasteCategoryInput struct {
	Category           string `json:"category"            validate:"required"`
	Description        string `json:"description"         validate:"required"`
	DisposalGuidelines string `json:"disposal_guidelines" validate:"required"`
}

// WasteItemInput is the body of POST /waste_items/.
type WasteItemInput struct {
	Name                string `json:"name"                 validate:"required"`
	Category            string `json:"category"             validate:"required"`
	SortingInstructions string `json:"sorting_instructions" validate:"required"`
	CreatedByUsername   string `json:"created_by_username"  validate:"required"`
	CreatedByEmail      string `json:"created_by_email"     validate:"required,email"`
}

// Patch payloads for PUT. Every member is a Field; absent and null
// members leave the stored value untouched. Rules apply only to members
// that carry a value, and a member required on create may not be set to "".

// ChallengePatch is the body of PUT /challenges/{id}.
type ChallengePatch struct {
	Category          Field[string] `json:"category"            validate:"omitnil,min=1"`
	Description       Field[string] `json:"description"         validate:"omitnil,min=1"`
	DifficultyLevel   Field[int]    `json:"difficulty_level"    validate:"omitnil,gte=0,lte=10"`
	ScoringCriteria   Field[string] `json:"scoring_criteria"    validate:"omitnil,min=1"`
	CreatedByUsername Field[string] `json:"created_by_username" validate:"omitnil,min=1"`
	CreatedByEmail    Field[string] `json:"created_by_email"    validate:"omitnil,email"`
}

// UserPatch is the body of PUT /users/{id}.
type UserPatch struct {
	Name      Field[string] `json:"name"      validate:"omitnil,min=1"`
	Age       Field[int]    `json:"age"       validate:"omitnil,gte=0,lte=100"`
	Email     Field[string] `json:"email"     validate:"omitnil,email"`
	Password  Field[string] `json:"password"  validate:"omitnil,min=1,maxbytes=72"`
	Course    Field[string] `json:"course"    validate:"omitnil,min=1"`
	Challenge Field[string] `json:"challenge"`
}

// WasteCategoryPatch is the body of PUT /waste_categories/{id}.
type WasteCategoryPatch struct {
	Category           Field[string] `json:"category"            validate:"omitnil,min=1"`
	Description        Field[string] `json:"description"         validate:"omitnil,min=1"`
	DisposalGuidelines Field[string] `json:"disposal_guidelines" validate:"omitnil,min=1"`
}

// WasteItemPatch is the body of PUT /waste_items/{id}.
type WasteItemPatch struct {
	Name                Field[string] `json:"name"                 validate:"omitnil,min=1"`
	Category            Field[string] `json:"category"             validate:"omitnil,min=1"`
	SortingInstructions Field[string] `json:"sorting_instructions" validate:"omitnil,min=1"`
	CreatedByUsername   Field[string] `json:"created_by_username"  validate:"omitnil,min=1"`
	CreatedByEmail      Field[string] `json:"created_by_email"     validate:"omitnil,email"`
}

// LoginRequest is the body of POST /users/login/.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}
