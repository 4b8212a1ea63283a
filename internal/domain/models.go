// Package domain defines the persistence models for principals and their
// allow-list entries. These types are mapped with GORM and form the core data
// layer of the access bot.
package domain

import (
	"strconv"
	"time"
)

// Principal is a remote user known to the bot. The identifier is the stable
// external (Telegram) user id and is the only field used for identity; handle
// and display name are metadata refreshed on every interaction.
//
// Fields:
//   - ID: external numeric identifier, primary key (never auto-generated).
//   - Handle: optional mutable username without the leading '@' (indexed).
//   - DisplayName: optional mutable free text (first name).
//   - CreatedAt: set once, at first sighting.
//   - UpdatedAt: bumped on every upsert.
type Principal struct {
	ID          int64     `json:"identifier"             gorm:"column:identifier;primaryKey;autoIncrement:false"`
	Handle      *string   `json:"handle,omitempty"       gorm:"type:varchar(64);index:idx_principals_handle"`
	DisplayName *string   `json:"display_name,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"             gorm:"not null;index:idx_principals_created"`
	UpdatedAt   time.Time `json:"updated_at"             gorm:"not null"`
}

// TableName returns the database table name for Principal.
func (Principal) TableName() string { return "principals" }

// Label is the human-facing reference for a principal: "@handle" when a
// handle is known, otherwise the numeric identifier.
func (p Principal) Label() string {
	if p.Handle != nil && *p.Handle != "" {
		return "@" + *p.Handle
	}
	return strconv.FormatInt(p.ID, 10)
}

// AllowEntry is the authorization fact for a principal. There is at most one
// entry per identifier; a principal without an entry is unauthorized.
//
// Fields:
//   - PrincipalID: identifier of the principal (primary key + FK).
//   - IsAuthorized: current authorization state.
//   - AuthorizedBy: admin identifier that last granted access.
//   - AuthorizedAt: time of the last grant.
//   - UpdatedAt: time of the last grant or revoke.
type AllowEntry struct {
	PrincipalID  int64      `json:"identifier"              gorm:"column:identifier;primaryKey;autoIncrement:false"`
	IsAuthorized bool       `json:"is_authorized"           gorm:"not null;index:idx_allow_list_authorized"`
	AuthorizedBy *int64     `json:"authorized_by,omitempty"`
	AuthorizedAt *time.Time `json:"authorized_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Principal is the owning principal row; entries follow its lifecycle.
	Principal Principal `json:"-" gorm:"foreignKey:PrincipalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for AllowEntry.
func (AllowEntry) TableName() string { return "allow_list" }

// Stats summarizes the allow-list.
type Stats struct {
	TotalPrincipals int64 `json:"total_principals"`
	AuthorizedCount int64 `json:"authorized_count"`
}

// Unauthorized is the number of known principals without access.
func (s Stats) Unauthorized() int64 {
	if s.AuthorizedCount > s.TotalPrincipals {
		return 0
	}
	return s.TotalPrincipals - s.AuthorizedCount
}
