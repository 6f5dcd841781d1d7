package model

import "time"

// Roles understood by the catalog.  Editors may flush seen flags and
// invite other users; viewers can only browse.
const (
	RoleEditor = "EDITOR"
	RoleViewer = "VIEWER"
)

// User represents an application user record as stored in the
// `users` table.  The catalog is shared by a small group, so users are
// created by an editor rather than through open sign-up.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – EDITOR or VIEWER.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// SeenEdit is one row of the `seen_edits` audit table.  A record is
// written for every cell flushed to the sheet.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who submitted the edit.
//  RowID     – sheet row number of the movie.
//  Column    – header of the edited column.
//  OldValue  – value read before the flush.
//  NewValue  – value written.
//  CreatedAt – when the flush happened.
type SeenEdit struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	RowID     int       `json:"row_id"`
	Column    string    `json:"column"`
	OldValue  bool      `json:"old_value"`
	NewValue  bool      `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}
