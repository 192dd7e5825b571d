// Package domain defines the persistence models for the church website:
// sermons, events, praise songs, notifications, giving details, like
// membership, and the admin account. These types are mapped with GORM and
// form the core data layer of the application.
package domain

import (
	"time"
)

// ContentKind names a public content collection. The zero value is invalid.
type ContentKind string

// Content kinds served by the public API. For media-backed kinds the kind
// doubles as the object-store bucket name.
const (
	KindSermons       ContentKind = "sermons"
	KindEvents        ContentKind = "events"
	KindPraiseSongs   ContentKind = "praise_songs"
	KindNotifications ContentKind = "notifications"
)

// Valid reports whether k is one of the known content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindSermons, KindEvents, KindPraiseSongs, KindNotifications:
		return true
	}
	return false
}

// HasMedia reports whether records of this kind reference a stored binary.
func (k ContentKind) HasMedia() bool { return k != KindNotifications }

// Sermon is a published sermon video with a community like counter.
//
// Fields:
//   - ID: stable UUID primary key, assigned at creation and never reused.
//   - Title: human-readable sermon title.
//   - VideoURL: object-store path of the uploaded video. Only the path is
//     persisted; the public URL is derived on read (PublicURL).
//   - Likes: non-negative like counter, maintained transactionally together
//     with the sermon_likes membership rows.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM. Lists are always
//     ordered by CreatedAt descending.
type Sermon struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	VideoURL  string    `json:"video_url"  gorm:"type:text;not null"`
	Likes     int       `json:"likes"      gorm:"not null;default:0;check:likes >= 0"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// PublicURL is resolved from VideoURL when the record is served.
	// Never persisted: URLs are derivable, not canonical.
	PublicURL string `json:"public_url,omitempty" gorm:"-"`
}

// TableName returns the database table name for Sermon.
func (Sermon) TableName() string { return "sermons" }

// Event is a church event announcement backed by an uploaded image.
type Event struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	ImageURL  string    `json:"image_url"  gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	PublicURL string `json:"public_url,omitempty" gorm:"-"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }

// PraiseSong is an uploaded worship audio track.
type PraiseSong struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title"      gorm:"type:varchar(255);not null"`
	FilePath  string    `json:"file_path"  gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	PublicURL string `json:"public_url,omitempty" gorm:"-"`
}

// TableName returns the database table name for PraiseSong.
func (PraiseSong) TableName() string { return "praise_songs" }

// Notification is a short announcement pushed by the admin. It has no
// associated binary object.
type Notification struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title"      gorm:"type:varchar(255)"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// GiveDetailsID is the fixed primary key of the giving-details singleton.
// The row is always upserted under this id, never inserted fresh twice.
const GiveDetailsID = 1

// GiveDetails is the singleton record holding the congregation's payment
// instructions. Free text; the application attaches no semantics beyond
// storing and serving the three channels.
type GiveDetails struct {
	ID        int       `json:"id"         gorm:"primaryKey"`
	EcoCash   string    `json:"eco_cash"   gorm:"type:text"`
	Visa      string    `json:"visa"       gorm:"type:text"`
	Inbucks   string    `json:"inbucks"    gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for GiveDetails.
func (GiveDetails) TableName() string { return "give_details" }

// SermonLike records that a user has liked a sermon. The (sermon_id,
// user_id) pair is unique, so membership doubles as the source of truth for
// the counter on the sermon row: a toggle flips this row and the clamped
// counter in the same transaction.
type SermonLike struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	SermonID  string    `json:"sermon_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_sermon_likes_sermon_user"`
	UserID    string    `json:"user_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_sermon_likes_sermon_user"`
	CreatedAt time.Time `json:"created_at"`

	// Sermon is the liked record. Membership rows are cascade-deleted with it.
	Sermon Sermon `json:"-" gorm:"foreignKey:SermonID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SermonLike.
func (SermonLike) TableName() string { return "sermon_likes" }

// User is an account that can sign in. In practice there is a single admin
// account seeded from configuration; the model keeps the door open for more.
type User struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"     gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
