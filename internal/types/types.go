// Package types holds the shared data structures used across the
// services. Keeping them in one place prevents import cycles: handlers,
// services and storage backends all import types without depending on
// each other.
//
// Every entity carries two sets of struct tags:
//
//  1. json:"..." controls the public shape of the record in API
//     responses. The identifier is surfaced as "id".
//
//  2. bson:"..." controls the stored document. The identifier lives
//     under the reserved "_id" key and is omitted on insert so the store
//     assigns it.
package types

import "go.mongodb.org/mongo-driver/bson/primitive"

// Stored field names. Services build change sets and lookups with these
// keys, so they must match the bson tags below.
const (
	FieldID                  = "_id"
	FieldName                = "name"
	FieldAge                 = "age"
	FieldEmail               = "email"
	FieldPassword            = "password"
	FieldCourse              = "course"
	FieldChallenge           = "challenge"
	FieldCategory            = "category"
	FieldDescription         = "description"
	FieldDifficultyLevel     = "difficulty_level"
	FieldScoringCriteria     = "scoring_criteria"
	FieldCreatedByUsername   = "created_by_username"
	FieldCreatedByEmail      = "created_by_email"
	FieldDisposalGuidelines  = "disposal_guidelines"
	FieldSortingInstructions = "sorting_instructions"
)

// Challenge is a waste-sorting challenge. Users join a challenge by
// storing its category in their own Challenge field.
type Challenge struct {
	ID                primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	Category          string             `json:"category"            bson:"category"`
	Description       string             `json:"description"         bson:"description"`
	DifficultyLevel   int                `json:"difficulty_level"    bson:"difficulty_level"`
	ScoringCriteria   string             `json:"scoring_criteria"    bson:"scoring_criteria"`
	CreatedByUsername string             `json:"created_by_username" bson:"created_by_username"`
	CreatedByEmail    string             `json:"created_by_email"    bson:"created_by_email"`
}

// User is a registered participant.
//
// Password holds the bcrypt hash, never the plaintext. It is excluded
// from JSON so the hash never leaves the service.
type User struct {
	ID        primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	Name      string             `json:"name"                bson:"name"`
	Age       int                `json:"age"                 bson:"age"`
	Email     string             `json:"email"               bson:"email"`
	Password  string             `json:"-"                   bson:"password"`
	Course    string             `json:"course"              bson:"course"`
	Challenge string             `json:"challenge,omitempty" bson:"challenge,omitempty"`
}

// WasteCategory describes a class of waste and how to dispose of it.
type WasteCategory struct {
	ID                 primitive.ObjectID `json:"id"                  bson:"_id,omitempty"`
	Category           string             `json:"category"            bson:"category"`
	Description        string             `json:"description"         bson:"description"`
	DisposalGuidelines string             `json:"disposal_guidelines" bson:"disposal_guidelines"`
}

// WasteItem is a concrete item a user has catalogued. CreatedByEmail
// correlates it with the user that created it.
type WasteItem struct {
	ID                  primitive.ObjectID `json:"id"                   bson:"_id,omitempty"`
	Name                string             `json:"name"                 bson:"name"`
	Category            string             `json:"category"             bson:"category"`
	SortingInstructions string             `json:"sorting_instructions" bson:"sorting_instructions"`
	CreatedByUsername   string             `json:"created_by_username"  bson:"created_by_username"`
	CreatedByEmail      string             `json:"created_by_email"     bson:"created_by_email"`
}

// LoginResult is returned by a successful credential check. No session
// or token is issued.
type LoginResult struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}
