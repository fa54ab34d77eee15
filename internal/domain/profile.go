package domain

import (
	"context"
	"strings"
	"time"
)

// ============================================================================
// Roles
// ============================================================================

// Role is how a user participates in the marketplace.
type Role string

const (
	RoleUnset        Role = ""
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

// IsValid checks if the role is one of the two registerable roles.
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleProfessional
}

// ============================================================================
// Service Categories
// ============================================================================

// Category represents a service category code (rubro).
type Category string

const (
	CategoryCarpinteria  Category = "carpinteria"
	CategoryElectricidad Category = "electricidad"
	CategoryPlomeria     Category = "plomeria"
	CategoryJardineria   Category = "jardineria"
	CategoryNineria      Category = "nineria"
	CategoryAlbanileria  Category = "albanileria"
	CategoryInformatica  Category = "informatica"
)

// ValidCategories returns all valid category codes.
func ValidCategories() []Category {
	return []Category{
		CategoryCarpinteria, CategoryElectricidad, CategoryPlomeria,
		CategoryJardineria, CategoryNineria, CategoryAlbanileria,
		CategoryInformatica,
	}
}

// IsValid checks if the category code is valid.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// ============================================================================
// Profile
// ============================================================================

// Profile is the per-user profile document. One row per user id.
type Profile struct {
	UserID             string     `json:"user_id"`
	Role               Role       `json:"role"`
	FullName           string     `json:"full_name"`
	Phone              string     `json:"phone"`
	Categories         []Category `json:"categories,omitempty"`
	Bio                string     `json:"bio,omitempty"`
	IsServicePublished bool       `json:"is_service_published"`
	IsProfileComplete  bool       `json:"is_profile_complete"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// MeetsCompletionFor reports whether the profile carries every field the given
// role requires: name and phone always, at least one category for professionals.
func (p *Profile) MeetsCompletionFor(role Role) bool {
	if p == nil || !role.IsValid() {
		return false
	}
	if strings.TrimSpace(p.FullName) == "" || strings.TrimSpace(p.Phone) == "" {
		return false
	}
	if role == RoleProfessional && len(p.Categories) == 0 {
		return false
	}
	return true
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched
// by the store (merge semantics).
type ProfilePatch struct {
	Role               *Role       `json:"role,omitempty"`
	FullName           *string     `json:"full_name,omitempty"`
	Phone              *string     `json:"phone,omitempty"`
	Categories         *[]Category `json:"categories,omitempty"`
	Bio                *string     `json:"bio,omitempty"`
	IsServicePublished *bool       `json:"is_service_published,omitempty"`
	IsProfileComplete  *bool       `json:"is_profile_complete,omitempty"`
}

// ProfileFilter narrows Query results. Zero values mean "no constraint".
type ProfileFilter struct {
	Role      Role
	Complete  *bool
	Published *bool
	Category  Category
}

// ============================================================================
// Store Interface
// ============================================================================

// ProfileStore is the facade over the hosted profile document store.
//
// Get must distinguish "no profile" (ErrProfileNotFound) from "could not
// determine" (*StoreError); callers rely on that to avoid treating transport
// failures as a missing profile.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Put(ctx context.Context, userID string, patch ProfilePatch) error
	Query(ctx context.Context, filter ProfileFilter) ([]Profile, error)
}
