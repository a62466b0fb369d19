package domain

import (
	"time"

	"gorm.io/gorm"
)

// Sender types of a DM message
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// DMThread is the single conversation between one member and the staff.
// IsAdminRead drives unread-first ordering of the admin inbox.
type DMThread struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	IsAdminRead bool           `gorm:"column:is_admin_read;default:false;index" json:"is_admin_read"`
	LastSentAt  *time.Time     `gorm:"column:last_sent_at;index" json:"last_sent_at"`
	LabelID     *uint64        `gorm:"column:label_id;index" json:"label_id"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Label       *DMLabel       `gorm:"foreignKey:LabelID" json:"label,omitempty"`
	Tags        []DMTag        `gorm:"many2many:dm_thread_tags;joinForeignKey:ThreadID;joinReferences:TagID" json:"tags,omitempty"`
}

func (DMThread) TableName() string { return "dm_threads" }

// DMMessage is one message of a thread
type DMMessage struct {
	ID         uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ThreadID   uint64           `gorm:"column:thread_id;index" json:"thread_id"`
	UserID     uint64           `gorm:"column:user_id;index" json:"user_id"`
	SenderType string           `gorm:"column:sender_type;type:varchar(10)" json:"sender_type"`
	Content    string           `gorm:"column:content;type:text" json:"content"`
	IsRead     bool             `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"column:deleted_at;index" json:"-"`
	Images     []DMMessageImage `gorm:"foreignKey:MessageID" json:"images,omitempty"`
	IsMine     bool             `gorm:"-" json:"is_mine"`
}

func (DMMessage) TableName() string { return "dm_messages" }

// FromOwner reports whether the message was written by the thread owner
func (m *DMMessage) FromOwner(ownerID uint64) bool {
	return m.SenderType == SenderUser && m.UserID == ownerID
}

// DMMessageImage is an image attached to a message
type DMMessageImage struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageID   uint64    `gorm:"column:message_id;index" json:"message_id"`
	URL         string    `gorm:"column:url;type:varchar(1000)" json:"url"`
	ObjectKey   string    `gorm:"column:object_key;type:varchar(500)" json:"-"`
	ContentType string    `gorm:"column:content_type;type:varchar(100)" json:"content_type"`
	Size        int64     `gorm:"column:size" json:"size"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DMMessageImage) TableName() string { return "dm_message_images" }

// DMLabel is a colored label; a thread has at most one
type DMLabel struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;type:varchar(100)" json:"name"`
	Color     string         `gorm:"column:color;type:varchar(20)" json:"color"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (DMLabel) TableName() string { return "dm_labels" }

// DMTag is a free-form tag; threads carry many
type DMTag struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;type:varchar(100)" json:"name"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (DMTag) TableName() string { return "dm_tags" }

// DMThreadTag joins threads and tags. Detaching soft-deletes the row and
// attaching again revives it.
type DMThreadTag struct {
	ThreadID  uint64         `gorm:"column:thread_id;primaryKey" json:"thread_id"`
	TagID     uint64         `gorm:"column:tag_id;primaryKey" json:"tag_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (DMThreadTag) TableName() string { return "dm_thread_tags" }

// DMMemo is a staff note on a thread
type DMMemo struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ThreadID   uint64         `gorm:"column:thread_id;index" json:"thread_id"`
	Content    string         `gorm:"column:content;type:text" json:"content"`
	AssigneeID *uint64        `gorm:"column:assignee_id" json:"assignee_id"`
	CreatedBy  uint64         `gorm:"column:created_by" json:"created_by"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	Assignee   *Admin         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

func (DMMemo) TableName() string { return "dm_memos" }

// ThreadPage is one page of the admin inbox
type ThreadPage struct {
	Threads     []DMThread `json:"threads"`
	Total       int64      `json:"total"`
	UnreadTotal int64      `json:"unread_total"`
	Offset      int        `json:"offset"`
	Limit       int        `json:"limit"`
	HasMore     bool       `json:"has_more"`
}

// MessagePage is one page of a thread, oldest first
type MessagePage struct {
	Messages []DMMessage `json:"messages"`
	Total    int64       `json:"total"`
	Offset   int         `json:"offset"`
	HasMore  bool        `json:"has_more"`
}

// ImageResult is the per-file outcome of an image post
type ImageResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ImagePostResult is the outcome of SendImages
type ImagePostResult struct {
	Message *DMMessage    `json:"message"`
	Files   []ImageResult `json:"files"`
}

// SendTextRequest text post body
type SendTextRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// ReadStatusRequest toggles thread read state
type ReadStatusRequest struct {
	Read *bool `json:"read" binding:"required"`
}

// LabelRequest create/update label
type LabelRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"max=20"`
}

// SetLabelRequest assigns a label; nil clears it
type SetLabelRequest struct {
	LabelID *uint64 `json:"label_id"`
}

// TagRequest create tag
type TagRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// MemoRequest create/update memo
type MemoRequest struct {
	Content    string  `json:"content" binding:"required"`
	AssigneeID *uint64 `json:"assignee_id"`
}
